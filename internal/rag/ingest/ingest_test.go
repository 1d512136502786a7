package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
)

// --- Mocks for BatchIngest ---

type mockEmbedder struct {
	batchFunc func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return m.batchFunc(ctx, chunks)
}

type mockVectorDB struct {
	createFunc func(ctx context.Context, name string) error
	upsertFunc func(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error
}

func (m *mockVectorDB) Search(ctx context.Context, v []float32) ([]commonModels.SourceChunk, error) {
	return nil, nil
}
func (m *mockVectorDB) CreateCollection(ctx context.Context, name string) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, name)
	}
	return nil
}
func (m *mockVectorDB) UpsertBatch(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	return m.upsertFunc(ctx, coll, chunks, vectors)
}

// --- Unit Tests ---

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"REPORT.PDF", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.txt", commonModels.DOCX},
		{"memo.rtf", commonModels.DOCX},
		{"image.png", commonModels.ERR},
		{"noextension", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestSplitText_WindowBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		size    int
		overlap int
		want    int
	}{
		{"empty", 0, 1000, 200, 0},
		{"fits one window", 800, 1000, 200, 1},
		{"exactly one window", 1000, 1000, 200, 1},
		{"one past the window", 1001, 1000, 200, 2},
		{"four windows", 2500, 1000, 200, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.length)
			chunks := SplitText(text, tt.size, tt.overlap)
			if len(chunks) != tt.want {
				t.Errorf("SplitText(len=%d, size=%d, overlap=%d) gave %d chunks; want %d",
					tt.length, tt.size, tt.overlap, len(chunks), tt.want)
			}
		})
	}
}

func TestSplitText_Offsets(t *testing.T) {
	// Distinct runes so chunk offsets are verifiable
	runes := make([]rune, 2500)
	for i := range runes {
		runes[i] = rune('!' + i%90)
	}
	text := string(runes)

	size, overlap := 1000, 200
	chunks := SplitText(text, size, overlap)
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}

	step := size - overlap
	for i, chunk := range chunks {
		start := i * step
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		if chunk != string(runes[start:end]) {
			t.Errorf("chunk %d does not match runes [%d:%d]", i, start, end)
		}
	}

	// Consecutive chunks share their overlap region. The final chunk may be
	// shorter than the overlap, so compare only the runes it actually has.
	for i := 0; i < len(chunks)-1; i++ {
		prev := []rune(chunks[i])
		next := []rune(chunks[i+1])
		n := overlap
		if len(next) < n {
			n = len(next)
		}
		if string(next[:n]) != string(prev[step:step+n]) {
			t.Errorf("chunk %d does not start with the overlap region of chunk %d", i+1, i)
		}
	}
}

func TestSplitText_Deterministic(t *testing.T) {
	text := strings.Repeat("some document text ", 100)
	first := SplitText(text, 300, 50)
	second := SplitText(text, 300, 50)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestPrepareChunks(t *testing.T) {
	pages := []rawPage{
		{Number: 1, Content: "Page one content."},
		{Number: 2, Content: "Page two content."},
		{Number: 3, Content: ""},
	}
	doc := commonModels.Document{Id: "doc-1", Name: "report.pdf"}

	chunks := PrepareChunks(pages, doc, 1000, 200)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks (empty page skipped), got %d", len(chunks))
	}

	if chunks[0].Doc.Id != "doc-1" || chunks[0].PageNum != 1 || chunks[0].ChunkPageOrder != 0 {
		t.Errorf("Metadata mismatch in chunk 0: %+v", chunks[0])
	}
	if chunks[1].PageNum != 2 {
		t.Errorf("Metadata mismatch in chunk 1: %+v", chunks[1])
	}
	if chunks[0].ChunkId == chunks[1].ChunkId || chunks[0].ChunkId == "" {
		t.Errorf("Chunk ids must be unique and non-empty: %s vs %s", chunks[0].ChunkId, chunks[1].ChunkId)
	}
}

func TestBatchIngest(t *testing.T) {
	ctx := context.Background()
	chunks := make([]commonModels.DocChunk, 150) // Should trigger 2 batches (100 + 50)
	for i := range chunks {
		chunks[i] = commonModels.DocChunk{Chunk: "test content"}
	}

	callCount := 0
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			callCount++
			if len(c) != len(v) {
				t.Errorf("chunk/vector count mismatch: %d vs %d", len(c), len(v))
			}
			if coll != "documents" {
				t.Errorf("collection got %s, want documents", coll)
			}
			return nil
		},
	}

	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(ctx, chunks, "documents", vDB, emb)

	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}

	if callCount != 2 {
		t.Errorf("Expected 2 batches to be upserted, got %d", callCount)
	}
}

func TestBatchIngest_UpsertError(t *testing.T) {
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			return errors.New("upsert failed")
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(context.Background(), []commonModels.DocChunk{{Chunk: "hi"}}, "documents", vDB, emb)
	if err == nil {
		t.Error("Expected error from BatchIngest, got nil")
	}
}

func TestBatchIngest_CollectionError(t *testing.T) {
	vDB := &mockVectorDB{
		createFunc: func(ctx context.Context, name string) error {
			return errors.New("connection refused")
		},
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			t.Error("UpsertBatch must not be called when collection creation fails")
			return nil
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(context.Background(), []commonModels.DocChunk{{Chunk: "hi"}}, "documents", vDB, emb)
	if err == nil {
		t.Error("Expected error from BatchIngest, got nil")
	}
}

func TestIngestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("test content for ingestion"), 0644); err != nil {
		t.Fatal(err)
	}

	var upserted int
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			upserted += len(c)
			return nil
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	p := Params{Collection: "documents", ChunkSize: 1000, ChunkOverlap: 200}
	count, err := IngestFile(context.Background(), commonModels.FileRef{Path: path, Name: "notes.txt"}, p, emb, vDB)
	if err != nil {
		t.Fatalf("IngestFile failed: %v", err)
	}
	if count != 1 || upserted != 1 {
		t.Errorf("Expected 1 chunk indexed, got count=%d upserted=%d", count, upserted)
	}
}

func TestIngestFile_Concurrent(t *testing.T) {
	// /index and /upload may run at the same time; the package must hold up
	// under the race detector.
	dir := t.TempDir()
	p := Params{Collection: "documents", ChunkSize: 1000, ChunkOverlap: 200}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("doc-%d.txt", i)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("concurrent ingest content"), 0644); err != nil {
			t.Fatal(err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			vDB := &mockVectorDB{
				upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
					return nil
				},
			}
			if _, err := IngestFile(context.Background(), commonModels.FileRef{Path: path, Name: name}, p, emb, vDB); err != nil {
				t.Errorf("IngestFile(%s) failed: %v", name, err)
			}
		}()
	}
	wg.Wait()
}

func TestIngestFile_UnsupportedType(t *testing.T) {
	p := Params{Collection: "documents", ChunkSize: 1000, ChunkOverlap: 200}
	_, err := IngestFile(context.Background(), commonModels.FileRef{Path: "image.png", Name: "image.png"}, p,
		&mockEmbedder{}, &mockVectorDB{})
	if ragErrors.KindOf(err) != ragErrors.InvalidFileType {
		t.Errorf("Expected InvalidFileType, got %v", err)
	}
}

func TestIngestFile_UnreadablePDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	p := Params{Collection: "documents", ChunkSize: 1000, ChunkOverlap: 200}
	_, err := IngestFile(context.Background(), commonModels.FileRef{Path: path, Name: "broken.pdf"}, p,
		&mockEmbedder{}, &mockVectorDB{})
	if ragErrors.KindOf(err) != ragErrors.UnreadablePDF {
		t.Errorf("Expected UnreadablePDF, got %v", err)
	}
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.txt", "skip.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListDocuments(dir)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 supported files, got %d", len(files))
	}
	if files[0].Name != "a.pdf" || files[1].Name != "b.txt" {
		t.Errorf("Unexpected files: %+v", files)
	}
}

func TestListDocuments_MissingDirectory(t *testing.T) {
	_, err := ListDocuments(filepath.Join(t.TempDir(), "nope"))
	if ragErrors.KindOf(err) != ragErrors.Validation {
		t.Errorf("Expected Validation error, got %v", err)
	}
}
