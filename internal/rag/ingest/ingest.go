package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bssahu/langfuse-rag-bedrock/internal/adapter/utils"
	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/embedding"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/vectorDB"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

var logger *logger_i.Logger
var loggerOnce sync.Once

// initLogger delays logger construction until first use so the slog default
// set up in main is the one captured. Concurrent /index and /upload requests
// share one instance.
func initLogger() {
	loggerOnce.Do(func() {
		logger = logger_i.NewLogger("Document Ingestion ")
	})
}

// Params carries the per-deployment knobs of the ingestion pipeline.
type Params struct {
	Collection   string
	ChunkSize    int
	ChunkOverlap int
}

// IngestFile runs a single document through extract -> chunk -> embed ->
// upsert and reports how many chunks were written. The collection is created
// on first use. Chunks upserted before a failure stay in the store.
func IngestFile(ctx context.Context, file commonModels.FileRef, p Params, embedder embedding.Embedder, vectorDatabase vectorDB.DataProcessor) (int, error) {
	initLogger()
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("Processing document", "filename", file.Name, "path", file.Path)

	docType := getDocType(file.Path)
	if docType == commonModels.ERR {
		return 0, ragErrors.New(ragErrors.InvalidFileType, fmt.Sprintf("unsupported file type: %s", file.Name))
	}

	doc := commonModels.Document{
		Id:                  utils.GetNewUUID(),
		Name:                file.Name,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}

	rawPages, err := extractText(file.Path, doc.ContentType)
	if err != nil {
		log.Error("Error extracting document content", "filename", file.Name, "error", err)
		return 0, err
	}
	log.Debug("Processing document", "pages", len(rawPages))

	chunks := PrepareChunks(rawPages, doc, p.ChunkSize, p.ChunkOverlap)
	log.Debug("Processing document", "chunks", len(chunks))
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := BatchIngest(ctx, chunks, p.Collection, vectorDatabase, embedder); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// ListDocuments returns the supported documents directly under dir, in the
// stable order os.ReadDir gives. Unsupported files are skipped quietly, same
// as any bulk loader would. A missing or unreadable directory is the
// caller's mistake, not an infrastructure fault.
func ListDocuments(dir string) ([]commonModels.FileRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ragErrors.Wrap(ragErrors.Validation, fmt.Sprintf("cannot read directory %s", dir), err)
	}

	var files []commonModels.FileRef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if getDocType(entry.Name()) == commonModels.ERR {
			continue
		}
		files = append(files, commonModels.FileRef{
			Path: filepath.Join(dir, entry.Name()),
			Name: entry.Name(),
		})
	}
	return files, nil
}

// BatchIngest embeds and upserts chunks in fixed-size batches, preserving
// chunk order within each batch so vectors line up with their payloads.
func BatchIngest(ctx context.Context, chunks []commonModels.DocChunk, collection string, vectorDatabase vectorDB.DataProcessor, embedder embedding.Embedder) error {
	initLogger()
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if err := vectorDatabase.CreateCollection(ctx, collection); err != nil {
		log.Error("Error creating collection", "collection", collection, "error", err)
		return err
	}

	batchSize := config.IngestBatchSize
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		currentBatch := chunks[i:end]

		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Chunk
		}

		log.Debug("Starting embedding call", "batch size", len(currentBatch))
		vectors, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return err
		}

		if err := vectorDatabase.UpsertBatch(ctx, collection, currentBatch, vectors); err != nil {
			return err
		}
	}

	return nil
}
