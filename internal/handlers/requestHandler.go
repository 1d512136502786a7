package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bssahu/langfuse-rag-bedrock/internal/adapter"
	"github.com/bssahu/langfuse-rag-bedrock/internal/api"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
	"github.com/bssahu/langfuse-rag-bedrock/internal/rag"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

var (
	ragService rag.Service
	once       sync.Once
	logRH      *logger_i.Logger
)

// InitRAGHandler wires the orchestrator into the handler layer. Handlers stay
// package-level functions so the middleware can wrap them; the routing table
// lives in internal/server.
func InitRAGHandler(service rag.Service) {
	once.Do(func() {
		ragService = service
		logRH = logger_i.NewLogger("RequestHandler")
		logRH.Info("Starting request handler")
	})
}

// HealthHandler godoc
// @Summary      Liveness probe
// @Tags         Ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ChatHandler godoc
// @Summary      Answer a question over the indexed corpus
// @Description  Embeds the message, retrieves the top-k matching chunks, and generates an answer with cited sources. History is caller-supplied; nothing is stored server side.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest  true  "Message and optional chat history"
// @Success      200      {object}  api.ChatResponse
// @Failure      400      {object}  api.ErrorResponse "Missing message or malformed history"
// @Failure      502      {object}  api.ErrorResponse "Embedding or generation service failure"
// @Failure      503      {object}  api.ErrorResponse "Vector store unreachable"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "addr", r.RemoteAddr)
		return
	}
	log := logRH.With("traceId", traceId(r.Context()))

	var requestData api.ChatRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Error("Couldn't close the Chat handler reader :", "err", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		log.Warn("Bad Chat Request: ", "error:", err)
		WriteValidationError(w, ragErrors.Validation, "malformed request body")
		return
	}
	if kind, msg, ok := validateChatRequest(requestData); !ok {
		log.Warn("Bad Chat Request: ", "reason:", msg)
		WriteValidationError(w, kind, msg)
		return
	}

	result, err := ragService.Chat(r.Context(), requestData.Message, toChatTurns(requestData.ChatHistory))
	if err != nil {
		log.Error("Chat pipeline failed", "error", err)
		WriteError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(result))
}

// IndexHandler godoc
// @Summary      Index every supported document in a directory
// @Description  Walks the directory, extracts and chunks each document, embeds the chunks, and upserts them into the vector store. Already upserted chunks are not rolled back when a later document fails.
// @Tags         Indexing
// @Accept       json
// @Produce      json
// @Param        request  body      api.IndexRequest  true  "Directory to index"
// @Success      200      {object}  api.IndexResponse
// @Failure      400      {object}  api.ErrorResponse "Missing or unreadable directory"
// @Failure      422      {object}  api.ErrorResponse "A document could not be parsed"
// @Failure      502      {object}  api.ErrorResponse "Embedding service failure"
// @Failure      503      {object}  api.ErrorResponse "Vector store unreachable"
// @Router       /index [post]
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "addr", r.RemoteAddr)
		return
	}
	log := logRH.With("traceId", traceId(r.Context()))

	var requestData api.IndexRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.DirectoryPath == "" {
		log.Warn("Bad Index Request: ", "error:", err)
		WriteValidationError(w, ragErrors.Validation, "directory_path is required")
		return
	}

	info, err := os.Stat(requestData.DirectoryPath)
	if err != nil || !info.IsDir() {
		WriteValidationError(w, ragErrors.Validation, fmt.Sprintf("directory %q does not exist", requestData.DirectoryPath))
		return
	}

	report, err := ragService.IndexDirectory(r.Context(), requestData.DirectoryPath)
	if err != nil {
		log.Error("Index pipeline failed", "error", err)
		WriteError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToIndexResponse(report))
}

// UploadHandler godoc
// @Summary      Upload PDFs and index them
// @Description  Receives one or more PDF files via multipart/form-data, stages them under a temp directory, and runs the indexing pipeline. Non-PDF uploads are rejected before anything is written to the vector store.
// @Tags         Indexing
// @Accept       multipart/form-data
// @Produce      json
// @Param        documents  formData  file  true  "One or more PDF files"
// @Success      200  {object}  api.IndexResponse
// @Failure      400  {object}  api.ErrorResponse "Missing files or a non-PDF upload"
// @Failure      422  {object}  api.ErrorResponse "A PDF could not be parsed"
// @Failure      500  {object}  api.ErrorResponse "Storage or write error"
// @Router       /upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "addr", r.RemoteAddr)
		return
	}
	log := logRH.With("traceId", traceId(r.Context()))

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteValidationError(w, ragErrors.Validation, "File too large or bad request")
		return
	}

	fileHeaders := r.MultipartForm.File["documents"]
	if len(fileHeaders) == 0 {
		WriteValidationError(w, ragErrors.Validation, "at least one file is required in the documents field")
		return
	}

	// PDF-only, checked for the whole batch before a single byte is staged so a
	// bad file never leads to partial upserts.
	for _, fh := range fileHeaders {
		if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
			WriteValidationError(w, ragErrors.InvalidFileType, fmt.Sprintf("file %s is not a PDF file", fh.Filename))
			return
		}
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		log.Error("Couldn't get target directory :", "err", errString)
		WriteErrorStatus(w, http.StatusInternalServerError, errString)
		return
	}

	var staged []commonModels.FileRef
	defer func() {
		for _, f := range staged {
			if err := os.Remove(f.Path); err != nil {
				log.Error("Error removing staged file", "path", f.Path, "err", err)
			}
		}
	}()

	for _, fh := range fileHeaders {
		path, err := saveUploadedFile(fh, targetDir)
		if err != nil {
			log.Error("Could not stage uploaded file", "file", fh.Filename, "err", err)
			WriteErrorStatus(w, http.StatusInternalServerError, "Storage error")
			return
		}
		staged = append(staged, commonModels.FileRef{Path: path, Name: fh.Filename})
	}

	report, err := ragService.IndexFiles(r.Context(), staged)
	if err != nil {
		log.Error("Upload pipeline failed", "error", err)
		WriteError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToIndexResponse(report))
}
