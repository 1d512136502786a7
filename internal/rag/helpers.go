package rag

import (
	"context"
	"time"

	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/metrics"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/llm"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

func chunkTexts(matches []commonModels.SourceChunk) []string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return texts
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, message string) ([]float32, error) {
	log.Debug("Chat", "step", "embedding")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, message)
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, emb []float32) ([]commonModels.SourceChunk, error) {
	log.Debug("Chat", "step", "vector_search")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.vectorDB.Search(ctx, emb)
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, message string, matches []string, history []commonModels.ChatTurn) (llm.Answer, error) {
	log.Debug("Chat", "step", "llm_generation")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, message, matches, history)
}
