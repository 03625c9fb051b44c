package chunker

import (
	"strings"

	"github.com/Umang00/companion-backend/internal/models"
	"github.com/Umang00/companion-backend/pkg/textbound"
)

// DefaultGenericTarget is the character target for generic chunks.
const DefaultGenericTarget = 1000

// ChunkGeneric is the fallback for documents no other chunker claims: plain
// paragraph accumulation to a character target, no sentence or overlap
// awareness.
func ChunkGeneric(text, source string, targetSize int) []models.Chunk {
	if targetSize <= 0 {
		targetSize = DefaultGenericTarget
	}

	var chunks []models.Chunk
	var parts []string
	size := 0

	flush := func() {
		if len(parts) == 0 {
			return
		}
		chunks = append(chunks, models.Chunk{
			Text:     strings.Join(parts, "\n\n"),
			Category: models.CategoryGeneric,
			Metadata: map[string]any{"source": source},
		})
		parts = nil
		size = 0
	}

	for _, p := range textbound.Paragraphs(text) {
		if size > 0 && size+len(p) > targetSize {
			flush()
		}
		parts = append(parts, p)
		size += len(p)
	}
	flush()

	for i := range chunks {
		chunks[i].Metadata["chunkIndex"] = i
	}
	annotatePartInfo(chunks)
	return chunks
}

// ChunkFixed cuts raw fixed-size windows with a fixed overlap, for content
// with no discernible paragraph structure.
func ChunkFixed(text, source string, size, overlap int) []models.Chunk {
	if size <= 0 {
		size = DefaultGenericTarget
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}

	var chunks []models.Chunk
	runes := []rune(text)
	for start := 0; start < len(runes); start += size - overlap {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		content := strings.TrimSpace(string(runes[start:end]))
		if content == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Text:     content,
			Category: models.CategoryGeneric,
			Metadata: map[string]any{
				"source":     source,
				"chunkIndex": len(chunks),
			},
		})
		if end == len(runes) {
			break
		}
	}
	annotatePartInfo(chunks)
	return chunks
}
