package domain

import "errors"

// Sentinel errors for the ingestion and query pipelines. Callers match them
// with errors.Is; adapters wrap them with fmt.Errorf and %w so the original
// cause stays in the chain.
var (
	// ErrMalformedRecord marks a source record missing its primary text or
	// usage examples. Local to one record; an ingestion run continues past it.
	ErrMalformedRecord = errors.New("malformed source record")

	// ErrEmbeddingProvider marks a failed embedding call: network failure,
	// quota, malformed response, or empty input.
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrStoreContention marks a transient write conflict reported by the
	// store. The only store error class that is retried.
	ErrStoreContention = errors.New("store write contention")

	// ErrStoreUnrecoverable marks any other store failure. Fails the current
	// batch immediately, no retry.
	ErrStoreUnrecoverable = errors.New("unrecoverable store failure")

	// ErrInvalidQuery marks an empty or missing query text.
	ErrInvalidQuery = errors.New("query text is empty")
)
