package port

import (
	"time"

	"github.com/ablackcat04/software-studio-final/internal/domain"
)

// PartitionAll is the sentinel filter value meaning every known partition.
const PartitionAll = "all"

// RetryPolicy controls how batch commits handle store contention. Backoff
// maps a zero-based attempt number to the delay slept before the next retry;
// substituting a zero-delay function makes retry loops testable without
// sleeping.
type RetryPolicy struct {
	MaxRetries int
	Backoff    func(attempt int) time.Duration
}

// ExponentialBackoff returns 2^attempt seconds, attempt starting at 0.
func ExponentialBackoff(attempt int) time.Duration {
	return (1 << uint(attempt)) * time.Second
}

// DocStore is the document store holding meme documents, grouped by partition
// and sub-collection.
type DocStore interface {
	// Exists reports whether a document with the given key is already stored
	// under the partition's sub-collection.
	Exists(partition, subCollection, key string) (bool, error)

	// StreamAll visits every document whose sub-collection carries the given
	// name and whose partition is in the filter. An empty filter, or one
	// containing PartitionAll, resolves to the full known partition set.
	// Documents are delivered as stored; callers decide what to do with
	// partially written ones. Returning an error from fn stops the stream.
	StreamAll(subCollection string, partitions []string, fn func(partition string, doc domain.MemeDocument) error) error

	// CommitBatch atomically writes all documents into the partition's
	// sub-collection. Contention is retried under the store's RetryPolicy;
	// any other failure returns immediately wrapping
	// domain.ErrStoreUnrecoverable.
	CommitBatch(partition, subCollection string, docs []domain.MemeDocument) error

	// Partitions lists every known partition id.
	Partitions() ([]string, error)

	Close() error
}
