package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ablackcat04/software-studio-final/internal/adapter/memstore"
	"github.com/ablackcat04/software-studio-final/internal/domain"
	"github.com/ablackcat04/software-studio-final/internal/port"
)

type fakeEmbedder struct {
	dim      int
	calls    int
	failText map[string]bool
}

func (f *fakeEmbedder) Embed(text string) ([]float64, error) {
	f.calls++
	if f.failText[text] {
		return nil, fmt.Errorf("%w: simulated outage", domain.ErrEmbeddingProvider)
	}
	vec := make([]float64, f.dim)
	vec[0] = 1
	return vec, nil
}

func (f *fakeEmbedder) Dimension() int    { return f.dim }
func (f *fakeEmbedder) ModelName() string { return "fake" }

type countingStore struct {
	port.DocStore
	commits int
}

func (c *countingStore) CommitBatch(partition, subColl string, docs []domain.MemeDocument) error {
	c.commits++
	return c.DocStore.CommitBatch(partition, subColl, docs)
}

type failingStore struct {
	port.DocStore
	failOn  int // commit number that fails, 1-based
	commits int
}

func (f *failingStore) CommitBatch(partition, subColl string, docs []domain.MemeDocument) error {
	f.commits++
	if f.commits == f.failOn {
		return fmt.Errorf("%w: write quota exceeded", domain.ErrStoreUnrecoverable)
	}
	return f.DocStore.CommitBatch(partition, subColl, docs)
}

func makeRecords(n int) []domain.SourceRecord {
	records := make([]domain.SourceRecord, n)
	for i := range records {
		records[i] = domain.SourceRecord{
			Key:      fmt.Sprintf("meme-%03d", i),
			Text:     fmt.Sprintf("caption %d", i),
			Examples: []string{"example a", "example b"},
		}
	}
	return records
}

func TestDescribe(t *testing.T) {
	desc, err := Describe(domain.SourceRecord{Key: "k", Text: "A", Examples: []string{"B", "C"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc != "A\nB\nC" {
		t.Errorf("expected %q, got %q", "A\nB\nC", desc)
	}
}

func TestDescribeMalformed(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.SourceRecord
	}{
		{"no text", domain.SourceRecord{Key: "k", Examples: []string{"e"}}},
		{"blank text", domain.SourceRecord{Key: "k", Text: "   ", Examples: []string{"e"}}},
		{"no examples", domain.SourceRecord{Key: "k", Text: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Describe(tt.rec)
			if !errors.Is(err, domain.ErrMalformedRecord) {
				t.Errorf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestIngestIdempotent(t *testing.T) {
	st := memstore.NewMemoryStore()
	emb := &fakeEmbedder{dim: 4}
	uc := NewIngestUseCase(st, emb, "memes", 25)

	records := makeRecords(5)

	first, err := uc.Ingest("mygo", records, nil)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Processed != 5 || first.Skipped != 0 || first.Failed != 0 {
		t.Errorf("first run: got %+v", *first)
	}

	callsAfterFirst := emb.calls

	second, err := uc.Ingest("mygo", records, nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Processed != 0 || second.Skipped != 5 || second.Failed != 0 {
		t.Errorf("second run: got %+v", *second)
	}
	if emb.calls != callsAfterFirst {
		t.Errorf("second run spent %d embedding calls on already-stored keys", emb.calls-callsAfterFirst)
	}
}

func TestIngestBatchCount(t *testing.T) {
	st := &countingStore{DocStore: memstore.NewMemoryStore()}
	uc := NewIngestUseCase(st, &fakeEmbedder{dim: 4}, "memes", 4)

	report, err := uc.Ingest("mygo", makeRecords(10), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.commits != 3 {
		t.Errorf("expected ceil(10/4)=3 commits, got %d", st.commits)
	}
	if report.Processed != 10 {
		t.Errorf("expected 10 processed, got %d", report.Processed)
	}
}

func TestIngestSingleFinalCommit(t *testing.T) {
	st := &countingStore{DocStore: memstore.NewMemoryStore()}
	uc := NewIngestUseCase(st, &fakeEmbedder{dim: 4}, "memes", 25)

	if _, err := uc.Ingest("mygo", makeRecords(5), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.commits != 1 {
		t.Errorf("corpus smaller than batch size should commit once, got %d", st.commits)
	}
}

func TestIngestPerRecordFailuresContinue(t *testing.T) {
	st := memstore.NewMemoryStore()
	records := makeRecords(6)
	records[1].Text = "" // malformed
	records[3].Examples = nil
	emb := &fakeEmbedder{dim: 4, failText: map[string]bool{
		"caption 4\nexample a\nexample b": true,
	}}
	uc := NewIngestUseCase(st, emb, "memes", 25)

	report, err := uc.Ingest("mygo", records, nil)
	if err != nil {
		t.Fatalf("per-record failures must not abort the run: %v", err)
	}
	if report.Processed != 3 || report.Skipped != 0 || report.Failed != 3 {
		t.Errorf("got %+v", *report)
	}
	if report.Attempted() != report.Total {
		t.Errorf("attempted %d does not cover total %d", report.Attempted(), report.Total)
	}
}

func TestIngestHaltOnCommitFailure(t *testing.T) {
	st := &failingStore{DocStore: memstore.NewMemoryStore(), failOn: 1}
	uc := NewIngestUseCase(st, &fakeEmbedder{dim: 4}, "memes", 3)

	report, err := uc.Ingest("mygo", makeRecords(6), nil)
	if err == nil {
		t.Fatal("expected the run to halt on a definitive commit failure")
	}
	if !errors.Is(err, domain.ErrStoreUnrecoverable) {
		t.Errorf("expected ErrStoreUnrecoverable, got %v", err)
	}
	if report.Failed != 3 {
		t.Errorf("the failed batch's items must count as failed, got %d", report.Failed)
	}
	if report.NotAttempted != 3 {
		t.Errorf("unvisited records must be reported as not attempted, got %d", report.NotAttempted)
	}
	if report.Processed != 0 {
		t.Errorf("nothing was committed, got %d processed", report.Processed)
	}
	if st.commits != 1 {
		t.Errorf("second batch must never be attempted, got %d commits", st.commits)
	}
}

func TestIngestFinalCommitFailure(t *testing.T) {
	st := &failingStore{DocStore: memstore.NewMemoryStore(), failOn: 2}
	uc := NewIngestUseCase(st, &fakeEmbedder{dim: 4}, "memes", 3)

	report, err := uc.Ingest("mygo", makeRecords(5), nil)
	if err == nil {
		t.Fatal("expected an error from the failed final commit")
	}
	if report.Processed != 3 || report.Failed != 2 || report.NotAttempted != 0 {
		t.Errorf("got %+v", *report)
	}
}

func TestIngestEmptyCorpus(t *testing.T) {
	st := &countingStore{DocStore: memstore.NewMemoryStore()}
	uc := NewIngestUseCase(st, &fakeEmbedder{dim: 4}, "memes", 25)

	report, err := uc.Ingest("mygo", nil, nil)
	if err != nil {
		t.Fatalf("empty corpus must succeed: %v", err)
	}
	if *report != (domain.IngestReport{}) {
		t.Errorf("expected zero counts, got %+v", *report)
	}
	if st.commits != 0 {
		t.Errorf("expected no commits, got %d", st.commits)
	}
}
