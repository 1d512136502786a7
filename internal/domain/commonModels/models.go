package commonModels

import "time"

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	ERR  DocType = "ERROR"
)

type Document struct {
	Id                  string    `json:"source_doc_id"`
	Name                string    `json:"doc_name"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

type DocChunk struct {
	Doc            Document
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	PageNum        int    `json:"page_num"`
	ChunkPageOrder int    `json:"chunk_order"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one (role, message) pair of caller-supplied history. History is
// never persisted server side, the caller replays it on every request.
type ChatTurn struct {
	Role    string
	Content string
}

// SourceChunk is one retrieval hit: stored chunk text, cosine similarity to
// the query, and the stored payload metadata.
type SourceChunk struct {
	Text     string
	Score    float32
	Metadata map[string]any
}

// Usage is the token accounting reported by the generation provider.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

type ChatResult struct {
	Answer  string
	Usage   Usage
	Sources []SourceChunk
}

// FileRef points the indexer at a staged upload: Path is where the bytes live,
// Name is the filename the caller knows it by.
type FileRef struct {
	Path string
	Name string
}

type FileResult struct {
	File   string
	Chunks int
}

type IndexReport struct {
	ChunksIndexed      int
	DocumentsProcessed int
	Files              []FileResult
}
