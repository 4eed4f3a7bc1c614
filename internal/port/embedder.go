package port

// Embedder generates a vector embedding for a text.
type Embedder interface {
	// Embed returns the embedding vector for the given text. Fails with an
	// error wrapping domain.ErrEmbeddingProvider on empty input, network
	// failure, or a malformed provider response. Each call is billable;
	// callers are expected to dedupe before invoking it.
	Embed(text string) ([]float64, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
