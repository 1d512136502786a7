package adapter

import (
	"github.com/bssahu/langfuse-rag-bedrock/internal/api"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
)

func ToChatResponse(result commonModels.ChatResult) api.ChatResponse {
	//an empty hit list serializes as [], not null
	sources := make([]api.Source, 0, len(result.Sources))
	for _, s := range result.Sources {
		sources = append(sources, api.Source{
			Text:     s.Text,
			Score:    s.Score,
			Metadata: s.Metadata,
		})
	}

	return api.ChatResponse{
		Answer:  result.Answer,
		Sources: sources,
		Usage: api.Usage{
			InputTokens:  result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
		},
	}
}

func ToIndexResponse(report commonModels.IndexReport) api.IndexResponse {
	var files []api.FileResult
	for _, f := range report.Files {
		files = append(files, api.FileResult{File: f.File, Chunks: f.Chunks})
	}

	return api.IndexResponse{
		IndexedChunks:      report.ChunksIndexed,
		DocumentsProcessed: report.DocumentsProcessed,
		Files:              files,
	}
}

// ToErrorResponse maps a pipeline failure onto the wire shape plus its status
// code. Untagged errors come out as a plain 500.
func ToErrorResponse(err error) (api.ErrorResponse, int) {
	code := ragErrors.HTTPStatus(err)
	return api.ErrorResponse{
		Error: api.ErrorBody{
			Code:    code,
			Kind:    string(ragErrors.KindOf(err)),
			Message: ragErrors.Message(err),
		},
	}, code
}

func BadRequest(kind ragErrors.Kind, message string) (api.ErrorResponse, int) {
	return ToErrorResponse(ragErrors.New(kind, message))
}
