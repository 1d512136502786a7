// @title           RAG Chatbot API
// @version         1.0
// @description     Retrieval-augmented chat over an indexed document corpus, backed by Qdrant and AWS Bedrock.
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/handlers"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/embedding"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/embedding/bedrockEmbedding"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/embedding/googleEmbedding"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/embedding/openaiEmbedding"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/ingest"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/llm"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/llm/bedrock"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/llm/gemini"
	openaiLLM "github.com/bssahu/langfuse-rag-bedrock/internal/rag/llm/openai"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/vectorDB/qdrantDB"
	"github.com/bssahu/langfuse-rag-bedrock/internal/server"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	set := config.Load()
	flag.StringVar(&listenAddr, "listen-addr", set.ListenAddr(), "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorDB := qdrantDB.GetQuadrantClient(serviceContext, set)
	embeddingService, llmProvider := buildProviders(serviceContext, set)

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil, "provider", set.ModelProvider)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, ingest.Params{
		Collection:   set.QdrantCollectionName,
		ChunkSize:    set.ChunkSize,
		ChunkOverlap: set.ChunkOverlap,
	})

	handlers.InitRAGHandler(ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// buildProviders picks the embedding and generation backends from
// MODEL_PROVIDER. Both always come from the same provider.
func buildProviders(ctx context.Context, set config.Settings) (embedding.Embedder, llm.Provider) {
	switch set.ModelProvider {
	case config.ProviderGemini:
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, set.GeminiAPIKey),
			gemini.GetGeminiClient(ctx, config.GeminiModelName, set.GeminiAPIKey)
	case config.ProviderOpenAI:
		return openaiEmbedding.GetOpenAIEmbeddingClient(ctx, set.OpenAIAPIKey),
			openaiLLM.GetOpenAIClient(ctx, set.OpenAIAPIKey)
	default:
		return bedrockEmbedding.GetBedrockEmbeddingClient(ctx, set),
			bedrock.GetBedrockClient(ctx, set)
	}
}
