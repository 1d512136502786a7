package bedrock

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/bedrockRuntime"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag/llm"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var bedrockClient *llmClient

type llmClient struct {
	runtime *bedrockruntime.Client
	modelId string
}

// anthropicRequest is the Bedrock messages body (bedrock-2023-05-31). The
// messages shape is used instead of the legacy text-completions one because
// only it reports token usage in-band.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float32            `json:"temperature"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func GetBedrockClient(ctx context.Context, set config.Settings) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_bedrock")
		runtime := bedrockRuntime.GetBedrockRuntime(ctx, set)
		if runtime != nil {
			bedrockClient = &llmClient{runtime: runtime, modelId: set.BedrockModelID}
			logger.Info("Bedrock generation client created", "model", set.BedrockModelID)
		}
	})

	if bedrockClient == nil {
		return nil
	}
	return &llmClient{runtime: bedrockClient.runtime, modelId: bedrockClient.modelId}
}

func (c *llmClient) Generate(ctx context.Context, userQuery string, matches []string, messageHistory []commonModels.ChatTurn) (llm.Answer, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	messages := make([]anthropicMessage, 0, len(messageHistory)+1)
	for _, turn := range messageHistory {
		messages = append(messages, anthropicMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, anthropicMessage{
		Role:    commonModels.RoleUser,
		Content: llm.BuildUserPrompt(userQuery, matches),
	})

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        config.ModelMaxTokens,
		Temperature:      config.ModelTemperature,
		System:           config.ModelContext,
		Messages:         messages,
	})
	if err != nil {
		return llm.Answer{}, ragErrors.Wrap(ragErrors.GenerationService, "could not encode generation request", err)
	}

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelId),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		log.Error("Error generating with Bedrock", "error", err)
		return llm.Answer{}, ragErrors.Wrap(ragErrors.GenerationService, "generation service call failed", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return llm.Answer{}, ragErrors.Wrap(ragErrors.GenerationService, "could not decode generation response", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	log.Debug("Generation finished", "stop_reason", parsed.StopReason, "output_tokens", parsed.Usage.OutputTokens)
	return llm.Answer{
		Text: sb.String(),
		Usage: commonModels.Usage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
		},
	}, nil
}
