package domain

// SourceRecord is one corpus entry before ingestion: a meme's primary text
// plus the ordered usage examples written for it.
type SourceRecord struct {
	Key      string
	Text     string
	Examples []string
}

// MemeDocument is the persisted unit. Documents are written exactly once per
// key per partition and never mutated afterwards.
type MemeDocument struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Embedding   []float64 `json:"embedding"`
	PartitionID string    `json:"partition_id"`
}

// Result is one ranked entry of a similarity query. Constructed per call,
// never persisted.
type Result struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	PartitionID string  `json:"partition_id"`
}

// IngestReport summarises one ingestion run. Processed, Skipped and Failed
// cover exactly the records that were attempted; NotAttempted holds the
// remainder left unvisited when a run halts on a definitive commit failure.
type IngestReport struct {
	Processed    int
	Skipped      int
	Failed       int
	NotAttempted int
	Total        int
}

// Attempted returns the number of records the run actually visited.
func (r IngestReport) Attempted() int {
	return r.Processed + r.Skipped + r.Failed
}
