package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ablackcat04/software-studio-final/internal/domain"
)

type searchRequest struct {
	Query      string   `json:"query"`
	TopK       int      `json:"top_k"`
	Partitions []string `json:"partitions"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	results, err := s.search.Search(req.Query, req.TopK, req.Partitions)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			http.Error(w, "missing 'query' in request body", http.StatusBadRequest)
			return
		}
		http.Error(w, "internal server error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if results == nil {
		results = []domain.Result{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
