package embedding

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ablackcat04/software-studio-final/internal/domain"
)

func TestEmbedRejectsEmptyInput(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	e := NewEmbedderForBaseURL("key", "text-embedding-ada-002", srv.URL, 1536)

	for _, input := range []string{"", "   "} {
		_, err := e.Embed(input)
		if !errors.Is(err, domain.ErrEmbeddingProvider) {
			t.Errorf("input %q: expected ErrEmbeddingProvider, got %v", input, err)
		}
	}
	if requests != 0 {
		t.Errorf("empty input must not reach the provider, got %d requests", requests)
	}
}

func TestEmbedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Input != "hello" || req.Model != "text-embedding-ada-002" {
			t.Errorf("unexpected request %+v", req)
		}

		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Embedding: []float64{0.1, -0.2, 0.3}, Index: 0}},
		})
	}))
	defer srv.Close()

	e := NewEmbedderForBaseURL("test-key", "text-embedding-ada-002", srv.URL, 3)

	vec, err := e.Embed("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0.1, -0.2, 0.3}
	if len(vec) != len(want) {
		t.Fatalf("expected %v, got %v", want, vec)
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("expected %v, got %v", want, vec)
			break
		}
	}
}

func TestEmbedProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}},
		{"api error body", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(embeddingResponse{Error: &apiError{Message: "quota exceeded"}})
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"empty data", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(embeddingResponse{})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			e := NewEmbedderForBaseURL("key", "text-embedding-ada-002", srv.URL, 1536)
			_, err := e.Embed("hello")
			if !errors.Is(err, domain.ErrEmbeddingProvider) {
				t.Errorf("expected ErrEmbeddingProvider, got %v", err)
			}
		})
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(8)

	a, err := e.Embed("same text")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed("same text")
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("expected dimension 8, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Error("mock embedder must be deterministic")
			break
		}
	}

	if _, err := e.Embed(""); !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Errorf("expected ErrEmbeddingProvider for empty input, got %v", err)
	}
}
