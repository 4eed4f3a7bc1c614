package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ablackcat04/software-studio-final/internal/domain"
	"github.com/ablackcat04/software-studio-final/internal/port"
)

// DefaultTopK is the result count when the caller does not ask for one.
const DefaultTopK = 25

// SearchUseCase answers free-text similarity queries over the stored corpus.
// Stateless per call; concurrent searches need no coordination. Scoring is a
// brute-force cosine scan over every streamed candidate.
type SearchUseCase struct {
	store         port.DocStore
	embedder      port.Embedder
	subCollection string
	defaultTopK   int
}

func NewSearchUseCase(store port.DocStore, embedder port.Embedder, subCollection string, defaultTopK int) *SearchUseCase {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &SearchUseCase{
		store:         store,
		embedder:      embedder,
		subCollection: subCollection,
		defaultTopK:   defaultTopK,
	}
}

// Search embeds the query, scores every candidate in the resolved partitions
// and returns the topK best matches, descending by score. Candidates missing
// an id or embedding are excluded: a halted ingestion run may leave partially
// written documents behind. Embedding failures propagate unchanged; the
// caller can simply reissue the request.
func (u *SearchUseCase) Search(query string, topK int, partitions []string) ([]domain.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidQuery
	}
	if topK <= 0 {
		topK = u.defaultTopK
	}

	queryVec, err := u.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var results []domain.Result
	err = u.store.StreamAll(u.subCollection, partitions, func(partition string, doc domain.MemeDocument) error {
		if doc.ID == "" || len(doc.Embedding) == 0 {
			return nil
		}
		score, ok := cosineSimilarity(queryVec, doc.Embedding)
		if !ok {
			return nil
		}
		results = append(results, domain.Result{
			ID:          doc.ID,
			Description: doc.Description,
			Score:       score,
			PartitionID: partition,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stream candidates: %w", err)
	}

	// Stable sort: equal scores keep stream order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// cosineSimilarity reports dot(a,b)/(|a|·|b|). ok is false when the vectors
// differ in length or either has zero norm, in which case the score is
// undefined and the candidate is excluded rather than raising.
func cosineSimilarity(a, b []float64) (float64, bool) {
	if len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
