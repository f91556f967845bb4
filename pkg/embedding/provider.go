package embedding

import "context"

// BatchResult holds the vectors for one embedding call plus the model and
// dimensionality that produced them.
type BatchResult struct {
	Vectors [][]float32
	Model   string
	Dim     int
}

// QueryResult is the single-vector variant used for retrieval queries.
type QueryResult struct {
	Vector []float32
	Model  string
	Dim    int
}

// Provider defines the interface for generating text embeddings. Documents
// and queries use distinct task types so backends can optimize each side of
// the retrieval pair.
type Provider interface {
	EmbedDocuments(ctx context.Context, texts []string) (*BatchResult, error)
	EmbedQuery(ctx context.Context, text string) (*QueryResult, error)
}
