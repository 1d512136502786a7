package embedding

import "context"

// Embedder turns text into fixed-dimension vectors. BatchEmbedding returns
// one vector per input, in input order. Adapters do not retry, the caller
// owns any retry policy.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
