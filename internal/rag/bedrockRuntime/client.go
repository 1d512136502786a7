package bedrockRuntime

import (
	"context"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var runtimeInstance *bedrockruntime.Client

// GetBedrockRuntime returns the process-wide bedrock-runtime client shared by
// the embedding and generation adapters. Returns nil when the AWS config
// cannot be assembled.
func GetBedrockRuntime(ctx context.Context, set config.Settings) *bedrockruntime.Client {
	once.Do(func() {
		logger = logger_i.NewLogger("bedrock_runtime")

		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(set.AWSRegion),
		}
		// Static keys take priority, otherwise the default chain (profile,
		// instance role) applies.
		if set.AWSAccessKeyID != "" && set.AWSSecretAccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(set.AWSAccessKeyID, set.AWSSecretAccessKey, "")))
		}

		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			logger.Error("Error loading AWS config:", "error", err)
			return
		}
		runtimeInstance = bedrockruntime.NewFromConfig(cfg)
		logger.Info("Bedrock runtime client created", "region", set.AWSRegion)
	})
	return runtimeInstance
}
