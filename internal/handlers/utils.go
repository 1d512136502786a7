package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bssahu/langfuse-rag-bedrock/internal/adapter"
	"github.com/bssahu/langfuse-rag-bedrock/internal/api"
	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

// WriteError maps a pipeline failure to its status code and wire shape.
func WriteError(w http.ResponseWriter, err error) {
	body, code := adapter.ToErrorResponse(err)
	writeJsonResponse(w, code, body)
}

func WriteValidationError(w http.ResponseWriter, kind ragErrors.Kind, message string) {
	body, code := adapter.BadRequest(kind, message)
	writeJsonResponse(w, code, body)
}

// WriteErrorStatus is for failures outside the pipeline taxonomy (auth, rate
// limits), where the middleware already knows the code.
func WriteErrorStatus(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{
		Error: api.ErrorBody{Code: httpCode, Message: message},
	})
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "err", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

// validateChatRequest checks the required field and that every history turn
// carries a role the providers understand.
func validateChatRequest(req api.ChatRequest) (ragErrors.Kind, string, bool) {
	if req.Message == "" {
		return ragErrors.Validation, "message is required", false
	}
	for _, turn := range req.ChatHistory {
		if turn.Role != commonModels.RoleUser && turn.Role != commonModels.RoleAssistant {
			return ragErrors.Validation, "chat_history roles must be user or assistant", false
		}
	}
	return "", "", true
}

func toChatTurns(turns []api.ChatTurn) []commonModels.ChatTurn {
	var history []commonModels.ChatTurn
	for _, t := range turns {
		history = append(history, commonModels.ChatTurn{Role: t.Role, Content: t.Content})
	}
	return history
}

const maxUploadSize = config.MaxUploadSize

// saveUploadedFile stages a multipart file on disk with a timestamp prefix to
// avoid name collisions between uploads.
func saveUploadedFile(fh *multipart.FileHeader, targetDir string) (string, error) {
	fileReader, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fh.Filename))
	tempFilePath := filepath.Join(targetDir, filename)

	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		return "", err
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		return "", err
	}
	return tempFilePath, nil
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

func traceId(ctx context.Context) string {
	if v, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return v
	}
	return ""
}
