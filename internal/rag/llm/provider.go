package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
)

// Answer is the generated text plus whatever token accounting the provider
// reports.
type Answer struct {
	Text  string
	Usage commonModels.Usage
}

// Provider generates an answer for the user query, grounded on the retrieved
// matches, with the caller-supplied history replayed in front. Blocking, no
// streaming, no retries.
type Provider interface {
	Generate(ctx context.Context, query string, matches []string, history []commonModels.ChatTurn) (Answer, error)
}

// BuildUserPrompt assembles the final user turn: retrieved context first, then
// the question. An empty match list degrades to a context-free question.
func BuildUserPrompt(query string, matches []string) string {
	if len(matches) == 0 {
		return fmt.Sprintf("Context:\n(no relevant documents found)\n\nUser Question: %s", query)
	}
	return fmt.Sprintf("Context:\n%s\n\nUser Question: %s", strings.Join(matches, "\n"), query)
}
