package usecase

import (
	"fmt"
	"log"
	"strings"

	"github.com/ablackcat04/software-studio-final/internal/domain"
	"github.com/ablackcat04/software-studio-final/internal/port"
)

// DefaultBatchSize bounds how many pending documents accumulate before an
// atomic commit.
const DefaultBatchSize = 25

// ProgressFunc reports ingestion progress: records visited so far, the corpus
// size, and the key currently being worked on.
type ProgressFunc func(visited, total int, key string)

// IngestUseCase turns a source corpus into meme documents, exactly once per
// key per partition. Designed for a single sequential worker per run: the
// exists-then-write sequence is not atomic, so concurrent ingestion of the
// same partition is unsupported.
type IngestUseCase struct {
	store         port.DocStore
	embedder      port.Embedder
	subCollection string
	batchSize     int
}

func NewIngestUseCase(store port.DocStore, embedder port.Embedder, subCollection string, batchSize int) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &IngestUseCase{
		store:         store,
		embedder:      embedder,
		subCollection: subCollection,
		batchSize:     batchSize,
	}
}

// Ingest processes records in corpus order. Per-record failures (malformed
// record, embedding failure) are logged, counted and skipped past; a
// definitive batch commit failure halts the run, since continuing after a
// confirmed write failure could hide data loss. On a halt the returned error
// is non-nil and the report's NotAttempted covers the unvisited remainder.
//
// Re-running over an unchanged corpus is a no-op: existing keys are counted
// as skipped before any embedding call is spent on them.
func (u *IngestUseCase) Ingest(partition string, records []domain.SourceRecord, progress ProgressFunc) (*domain.IngestReport, error) {
	report := &domain.IngestReport{Total: len(records)}
	batch := make([]domain.MemeDocument, 0, u.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := u.store.CommitBatch(partition, u.subCollection, batch)
		if err != nil {
			report.Failed += len(batch)
		} else {
			report.Processed += len(batch)
		}
		batch = batch[:0]
		return err
	}

	for i, rec := range records {
		if progress != nil {
			progress(i+1, len(records), rec.Key)
		}

		description, err := Describe(rec)
		if err != nil {
			log.Printf("ingest %s/%s: %v", partition, rec.Key, err)
			report.Failed++
			continue
		}

		exists, err := u.store.Exists(partition, u.subCollection, rec.Key)
		if err != nil {
			log.Printf("ingest %s/%s: existence check failed: %v", partition, rec.Key, err)
			report.Failed++
			continue
		}
		if exists {
			report.Skipped++
			continue
		}

		vector, err := u.embedder.Embed(description)
		if err != nil {
			log.Printf("ingest %s/%s: %v", partition, rec.Key, err)
			report.Failed++
			continue
		}

		batch = append(batch, domain.MemeDocument{
			ID:          rec.Key,
			Description: description,
			Embedding:   vector,
			PartitionID: partition,
		})

		if len(batch) == u.batchSize {
			if err := flush(); err != nil {
				report.NotAttempted = len(records) - (i + 1)
				return report, fmt.Errorf("ingest %s halted: %w", partition, err)
			}
		}
	}

	// Trailing partial batch; a failure here is still definitive but there is
	// nothing left to halt.
	if err := flush(); err != nil {
		return report, fmt.Errorf("ingest %s: final commit failed: %w", partition, err)
	}

	return report, nil
}

// Describe derives the stored description: the primary text and each usage
// example joined by newlines. A record missing either fails as malformed.
func Describe(rec domain.SourceRecord) (string, error) {
	if strings.TrimSpace(rec.Text) == "" {
		return "", fmt.Errorf("%w: %q has no primary text", domain.ErrMalformedRecord, rec.Key)
	}
	if len(rec.Examples) == 0 {
		return "", fmt.Errorf("%w: %q has no usage examples", domain.ErrMalformedRecord, rec.Key)
	}
	return rec.Text + "\n" + strings.Join(rec.Examples, "\n"), nil
}
