package ingest

import (
	"github.com/bssahu/langfuse-rag-bedrock/internal/adapter/utils"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
)

// SplitText slices text into fixed windows of size runes, each window
// starting overlap runes before the previous one ended. Text that fits a
// single window comes back whole; empty input produces nothing. Pure function,
// same input always gives the same chunks.
func SplitText(text string, size int, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= size {
		return []string{text}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < n; start += step {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// PrepareChunks maps extracted pages onto DocChunk records. Chunk ids are
// fresh UUIDs, so re-indexing the same document creates new points instead of
// overwriting old ones.
func PrepareChunks(pages []rawPage, doc commonModels.Document, size int, overlap int) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, page := range pages {
		stringChunks := SplitText(page.Content, size, overlap)

		for i, text := range stringChunks {
			if text == "" {
				continue
			}
			allChunks = append(allChunks, commonModels.DocChunk{
				Doc:            doc,
				ChunkId:        utils.GetNewUUID(),
				Chunk:          text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
			})
		}
	}

	return allChunks
}
