package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bssahu/langfuse-rag-bedrock/internal/api"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
)

type mockRAGService struct {
	onChat           func(ctx context.Context, message string, history []commonModels.ChatTurn) (commonModels.ChatResult, error)
	onIndexDirectory func(ctx context.Context, dir string) (commonModels.IndexReport, error)
	onIndexFiles     func(ctx context.Context, files []commonModels.FileRef) (commonModels.IndexReport, error)
}

func (m *mockRAGService) Chat(ctx context.Context, message string, history []commonModels.ChatTurn) (commonModels.ChatResult, error) {
	if m.onChat != nil {
		return m.onChat(ctx, message, history)
	}
	return commonModels.ChatResult{Answer: "mock answer"}, nil
}

func (m *mockRAGService) IndexDirectory(ctx context.Context, dir string) (commonModels.IndexReport, error) {
	if m.onIndexDirectory != nil {
		return m.onIndexDirectory(ctx, dir)
	}
	return commonModels.IndexReport{}, nil
}

func (m *mockRAGService) IndexFiles(ctx context.Context, files []commonModels.FileRef) (commonModels.IndexReport, error) {
	if m.onIndexFiles != nil {
		return m.onIndexFiles(ctx, files)
	}
	return commonModels.IndexReport{}, nil
}

// One shared mock: InitRAGHandler is once-guarded, so tests swap the function
// fields instead of re-initializing.
var testService = &mockRAGService{}

func setupHandlers(t *testing.T) {
	t.Helper()
	InitRAGHandler(testService)
	testService.onChat = nil
	testService.onIndexDirectory = nil
	testService.onIndexFiles = nil
}

func decodeError(t *testing.T, body *bytes.Buffer) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("could not decode error body: %v", err)
	}
	return resp
}

func TestChatHandler_Success(t *testing.T) {
	setupHandlers(t)
	testService.onChat = func(ctx context.Context, message string, history []commonModels.ChatTurn) (commonModels.ChatResult, error) {
		if message != "what is in the report?" {
			t.Errorf("message got %q", message)
		}
		if len(history) != 1 || history[0].Role != commonModels.RoleUser {
			t.Errorf("history got %+v", history)
		}
		return commonModels.ChatResult{
			Answer:  "the report says hello",
			Usage:   commonModels.Usage{InputTokens: 12, OutputTokens: 4},
			Sources: []commonModels.SourceChunk{{Text: "hello", Score: 0.88}},
		}, nil
	}

	body := `{"message":"what is in the report?","chat_history":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ChatHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	var resp api.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if resp.Answer != "the report says hello" || len(resp.Sources) != 1 {
		t.Errorf("response got %+v", resp)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 4 {
		t.Errorf("usage got %+v", resp.Usage)
	}
}

func TestChatHandler_MissingMessage(t *testing.T) {
	setupHandlers(t)
	called := false
	testService.onChat = func(ctx context.Context, message string, history []commonModels.ChatTurn) (commonModels.ChatResult, error) {
		called = true
		return commonModels.ChatResult{}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"chat_history":[]}`))
	rec := httptest.NewRecorder()

	ChatHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got %d, want 400", rec.Code)
	}
	if called {
		t.Error("pipeline must not run for an invalid request")
	}
	resp := decodeError(t, rec.Body)
	if resp.Error.Kind != string(ragErrors.Validation) {
		t.Errorf("kind got %s, want %s", resp.Error.Kind, ragErrors.Validation)
	}
}

func TestChatHandler_BadHistoryRole(t *testing.T) {
	setupHandlers(t)

	body := `{"message":"hi","chat_history":[{"role":"system","content":"x"}]}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ChatHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got %d, want 400", rec.Code)
	}
}

func TestChatHandler_PipelineFailure(t *testing.T) {
	setupHandlers(t)
	testService.onChat = func(ctx context.Context, message string, history []commonModels.ChatTurn) (commonModels.ChatResult, error) {
		return commonModels.ChatResult{}, ragErrors.New(ragErrors.VectorStoreUnavailable, "vector store unreachable")
	}

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()

	ChatHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status got %d, want 503", rec.Code)
	}
	resp := decodeError(t, rec.Body)
	if resp.Error.Kind != string(ragErrors.VectorStoreUnavailable) {
		t.Errorf("kind got %s", resp.Error.Kind)
	}
}

func TestIndexHandler_MissingDirectory(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/index", strings.NewReader(`{"directory_path":"/definitely/not/here"}`))
	rec := httptest.NewRecorder()

	IndexHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got %d, want 400", rec.Code)
	}
}

func TestIndexHandler_Success(t *testing.T) {
	setupHandlers(t)
	dir := t.TempDir()
	testService.onIndexDirectory = func(ctx context.Context, got string) (commonModels.IndexReport, error) {
		if got != dir {
			t.Errorf("directory got %s, want %s", got, dir)
		}
		return commonModels.IndexReport{
			ChunksIndexed:      7,
			DocumentsProcessed: 2,
			Files: []commonModels.FileResult{
				{File: "a.pdf", Chunks: 4},
				{File: "b.pdf", Chunks: 3},
			},
		}, nil
	}

	body, _ := json.Marshal(api.IndexRequest{DirectoryPath: dir})
	req := httptest.NewRequest(http.MethodPost, "/index", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	IndexHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	var resp api.IndexResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if resp.IndexedChunks != 7 || resp.DocumentsProcessed != 2 || len(resp.Files) != 2 {
		t.Errorf("response got %+v", resp)
	}
}

func multipartBody(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("documents", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte("file contents")); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadHandler_RejectsNonPDF(t *testing.T) {
	setupHandlers(t)
	called := false
	testService.onIndexFiles = func(ctx context.Context, files []commonModels.FileRef) (commonModels.IndexReport, error) {
		called = true
		return commonModels.IndexReport{}, nil
	}

	// One good file plus one bad one: the whole batch must be rejected before
	// any indexing happens.
	body, contentType := multipartBody(t, "fine.pdf", "notes.txt")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got %d, want 400", rec.Code)
	}
	if called {
		t.Error("indexing must not run when any upload is not a PDF")
	}
	resp := decodeError(t, rec.Body)
	if resp.Error.Kind != string(ragErrors.InvalidFileType) {
		t.Errorf("kind got %s, want %s", resp.Error.Kind, ragErrors.InvalidFileType)
	}
}

func TestUploadHandler_NoFiles(t *testing.T) {
	setupHandlers(t)

	body, contentType := multipartBody(t)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got %d, want 400", rec.Code)
	}
}

func TestUploadHandler_Success(t *testing.T) {
	setupHandlers(t)
	testService.onIndexFiles = func(ctx context.Context, files []commonModels.FileRef) (commonModels.IndexReport, error) {
		if len(files) != 1 || files[0].Name != "report.pdf" {
			t.Errorf("staged files got %+v", files)
		}
		return commonModels.IndexReport{ChunksIndexed: 3, DocumentsProcessed: 1}, nil
	}

	body, contentType := multipartBody(t, "report.pdf")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	var resp api.IndexResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if resp.IndexedChunks != 3 || resp.DocumentsProcessed != 1 {
		t.Errorf("response got %+v", resp)
	}
}

func TestHealthHandler(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	HealthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("body got %+v", resp)
	}
}
