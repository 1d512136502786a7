package api

type ChatTurn struct {
	Role    string `json:"role" example:"user"`
	Content string `json:"content" example:"What is the capital of France?"`
}

type ChatRequest struct {
	Message     string     `json:"message" validate:"required"`
	ChatHistory []ChatTurn `json:"chat_history,omitempty"`
}

type Source struct {
	Text     string         `json:"text"`
	Score    float32        `json:"score" example:"0.83"`
	Metadata map[string]any `json:"metadata"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Usage   Usage    `json:"usage"`
}

type IndexRequest struct {
	DirectoryPath string `json:"directory_path" validate:"required" example:"documents"`
}

type FileResult struct {
	File   string `json:"file"`
	Chunks int    `json:"chunks"`
}

type IndexResponse struct {
	IndexedChunks      int          `json:"indexed_chunks"`
	DocumentsProcessed int          `json:"documents_processed"`
	Files              []FileResult `json:"files,omitempty"`
}

type ErrorBody struct {
	Code    int    `json:"code" example:"400"`
	Kind    string `json:"kind" example:"ValidationError"`
	Message string `json:"message" example:"message is required"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
