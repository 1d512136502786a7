package openaiEmbedding

import (
	"context"
	"sync"

	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/embedding"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	oa    openai.Client
	model string
}

func GetOpenAIEmbeddingClient(ctx context.Context, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("OPENAI_API_KEY is not set")
			return
		}
		embeddingClient = &client{
			oa:    openai.NewClient(option.WithAPIKey(apikey)),
			model: config.OpenAIEmbeddingModel,
		}
		logger.Info("OpenAI embedding client created", "model", config.OpenAIEmbeddingModel)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{oa: embeddingClient.oa, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	resp, err := c.oa.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model: openai.EmbeddingModel(c.model),
		// collection dimensionality is fixed, pin the model output to it
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, ragErrors.Wrap(ragErrors.EmbeddingService, "embedding service call failed", err)
	}
	if len(resp.Data) != len(chunks) {
		return nil, ragErrors.New(ragErrors.EmbeddingService, "embedding count does not match input count")
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}
