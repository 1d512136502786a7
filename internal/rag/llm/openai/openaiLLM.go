package openaiLLM

import (
	"context"
	"sync"

	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/llm"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var openaiClient *llmClient

type llmClient struct {
	oa        openai.Client
	modelName string
}

func GetOpenAIClient(ctx context.Context, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OPENAI_API_KEY is not set")
			return
		}
		openaiClient = &llmClient{
			oa:        openai.NewClient(option.WithAPIKey(apikey)),
			modelName: config.OpenAIModelName,
		}
		logger.Info("OpenAI generation client created", "model", config.OpenAIModelName)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{oa: openaiClient.oa, modelName: openaiClient.modelName}
}

func (c *llmClient) Generate(ctx context.Context, userQuery string, matches []string, messageHistory []commonModels.ChatTurn) (llm.Answer, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messageHistory)+2)
	messages = append(messages, openai.SystemMessage(config.ModelContext))
	for _, turn := range messageHistory {
		if turn.Role == commonModels.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(turn.Content))
	}
	messages = append(messages, openai.UserMessage(llm.BuildUserPrompt(userQuery, matches)))

	resp, err := c.oa.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelName),
		Messages:    messages,
		Temperature: openai.Float(float64(config.ModelTemperature)),
		MaxTokens:   openai.Int(int64(config.ModelMaxTokens)),
	})
	if err != nil {
		log.Error("Error generating with OpenAI", "error", err)
		return llm.Answer{}, ragErrors.Wrap(ragErrors.GenerationService, "generation service call failed", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Answer{}, ragErrors.New(ragErrors.GenerationService, "generation service returned no choices")
	}

	return llm.Answer{
		Text: resp.Choices[0].Message.Content,
		Usage: commonModels.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}
