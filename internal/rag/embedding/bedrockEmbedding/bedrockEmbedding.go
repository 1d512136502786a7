package bedrockEmbedding

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/bedrockRuntime"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/embedding"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	runtime *bedrockruntime.Client
	modelId string
}

// titanEmbedRequest is the amazon.titan-embed-text body. Titan embeds one
// input per invocation.
type titanEmbedRequest struct {
	InputText string `json:"inputText"`
}

type titanEmbedResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

func GetBedrockEmbeddingClient(ctx context.Context, set config.Settings) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("bedrock_embedding")
		runtime := bedrockRuntime.GetBedrockRuntime(ctx, set)
		if runtime != nil {
			embeddingClient = &client{runtime: runtime, modelId: set.BedrockEmbeddingModelID}
			logger.Info("Bedrock embedding client created", "model", set.BedrockEmbeddingModelID)
		}
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{runtime: embeddingClient.runtime, modelId: embeddingClient.modelId}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	body, err := json.Marshal(titanEmbedRequest{InputText: query})
	if err != nil {
		return nil, ragErrors.Wrap(ragErrors.EmbeddingService, "could not encode embedding request", err)
	}

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelId),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		log.Error("Error getting Embedding from Bedrock", "error", err)
		return nil, ragErrors.Wrap(ragErrors.EmbeddingService, "embedding service call failed", err)
	}

	var parsed titanEmbedResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return nil, ragErrors.Wrap(ragErrors.EmbeddingService, "could not decode embedding response", err)
	}
	return parsed.Embedding, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	// One invocation per chunk, output order mirrors input order.
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		v, err := c.GetEmbedding(ctx, chunk)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}
