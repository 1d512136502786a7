package vectorDB

import (
	"context"

	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
)

// DataProcessor is the vector store boundary. One adapter per backing engine
// so the orchestrator can run against a fake in tests.
type DataProcessor interface {
	// Search returns hits at or above the configured score threshold, best
	// first, at most top-k of them.
	Search(ctx context.Context, vectorVal []float32) ([]commonModels.SourceChunk, error)

	// CreateCollection is a no-op when the collection already exists.
	CreateCollection(ctx context.Context, collectionName string) error

	// UpsertBatch persists one (vector, chunk, metadata) record per chunk.
	// Writes are not transactional: a failure mid-batch leaves earlier points
	// in place.
	UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error
}
