package rag

import (
	"context"
	"time"

	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/metrics"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/embedding"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/ingest"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/llm"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/vectorDB"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract the HTTP handlers call.
  - It defines the behavior; handlers stay decoupled from which
    embedder, vector store or LLM is behind it.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the state (vector store, embedder and LLM clients).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies (vectorDB, llmProvider) directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.

4. Dependency Injection (NewService):
  - The constructor links the private struct to the public interface.
  - It allows us to swap real DBs for mocks during testing without
    changing the handlers.
*/

// Service is everything the HTTP layer needs: answering a chat turn and
// indexing documents, both synchronous within the request.
type Service interface {
	Chat(ctx context.Context, message string, history []commonModels.ChatTurn) (commonModels.ChatResult, error)
	IndexDirectory(ctx context.Context, directoryPath string) (commonModels.IndexReport, error)
	IndexFiles(ctx context.Context, files []commonModels.FileRef) (commonModels.IndexReport, error)
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	params      ingest.Params
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder, params ingest.Params) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		params:      params,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) Chat(ctx context.Context, message string, history []commonModels.ChatTurn) (commonModels.ChatResult, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("chat", time.Since(start)) }()

	// No pipeline deadline: generation can legitimately run long, the
	// server's write timeout and the remote clients' own defaults bound it.

	// Embedding
	queryVector, err := s.executeEmbeddingStep(ctx, inMethodLogger, message)
	if err != nil {
		inMethodLogger.Error("EMBEDDING_FAILURE", "error", err)
		return commonModels.ChatResult{}, err
	}

	// Vector DB Search
	matches, err := s.executeVectorSearchStep(ctx, inMethodLogger, queryVector)
	if err != nil {
		inMethodLogger.Error("VECTOR_DB_FAILURE", "error", err)
		return commonModels.ChatResult{}, err
	}
	// Zero matches is not an error: the model answers without document
	// context and the response carries no sources.
	if len(matches) == 0 {
		inMethodLogger.Debug("Chat", "status", "no matches above threshold")
	}

	// LLM Generation
	answer, err := s.executeLLMStep(ctx, inMethodLogger, message, chunkTexts(matches), history)
	if err != nil {
		inMethodLogger.Error("LLM_GENERATION_FAILURE", "error", err)
		return commonModels.ChatResult{}, err
	}

	return commonModels.ChatResult{
		Answer:  answer.Text,
		Usage:   answer.Usage,
		Sources: matches,
	}, nil
}

func (s *service) IndexDirectory(ctx context.Context, directoryPath string) (commonModels.IndexReport, error) {
	files, err := ingest.ListDocuments(directoryPath)
	if err != nil {
		s.logger.Error("INDEX_DIRECTORY_FAILURE", "directory", directoryPath, "error", err)
		return commonModels.IndexReport{}, err
	}
	return s.indexFiles(ctx, files)
}

func (s *service) IndexFiles(ctx context.Context, files []commonModels.FileRef) (commonModels.IndexReport, error) {
	return s.indexFiles(ctx, files)
}

// indexFiles processes files one by one, stopping at the first failure.
// Chunks already upserted before a failure are kept, not rolled back, and the
// partial report is returned alongside the error.
func (s *service) indexFiles(ctx context.Context, files []commonModels.FileRef) (commonModels.IndexReport, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("index", time.Since(start)) }()

	var report commonModels.IndexReport
	for _, file := range files {
		count, err := ingest.IngestFile(ctx, file, s.params, s.embedder, s.vectorDB)
		if err != nil {
			inMethodLogger.Error("INGESTION_FAILURE", "file", file.Name, "error", err)
			return report, err
		}

		report.ChunksIndexed += count
		report.DocumentsProcessed++
		report.Files = append(report.Files, commonModels.FileResult{File: file.Name, Chunks: count})

		metrics.AddChunksIndexed(count)
		metrics.IncrementDocumentsIndexed()
		inMethodLogger.Debug("Indexed document", "file", file.Name, "chunks", count)
	}
	return report, nil
}
