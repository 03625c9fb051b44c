package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Umang00/companion-backend/internal/models"
	"github.com/Umang00/companion-backend/pkg/textbound"
)

// Word budget for journey documents. The buffer zone above the soft cap
// exists to absorb a short or final paragraph instead of emitting a tiny
// orphan chunk: a modest overshoot is the explicit trade-off.
const (
	journeyTargetWords = 450
	journeySoftMax     = 500
	journeyBufferMax   = 600

	// Paragraphs under this word count may ride along into the buffer zone.
	shortParagraphWords = 100

	// A document at or under the soft max becomes a single chunk.
	singleChunkMax = 500
)

var fiscalYearRe = regexp.MustCompile(`(?i)fy[-_ ]?(\d{2})[-_](\d{2})`)

// FiscalYearLabel extracts a fiscal-year label like "FY23-24" from a
// filename, or "" when absent.
func FiscalYearLabel(filename string) string {
	m := fiscalYearRe.FindStringSubmatch(filename)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("FY%s-%s", m[1], m[2])
}

// ChunkJourney splits a narrative "journey" document into paragraph-
// aggregated chunks with sentence-level overlap across boundaries. year, when
// non-zero, is recorded on every chunk.
func ChunkJourney(text, source string, year int) []models.Chunk {
	paragraphs := textbound.Paragraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	fiscal := FiscalYearLabel(source)

	baseMeta := func() map[string]any {
		m := map[string]any{"source": source}
		if fiscal != "" {
			m["fiscalYear"] = fiscal
		}
		if year != 0 {
			m["year"] = year
		}
		return m
	}

	var chunks []models.Chunk

	total := 0
	for _, p := range paragraphs {
		total += wordCount(p)
	}

	if total <= singleChunkMax {
		meta := baseMeta()
		meta["paragraphRange"] = fmt.Sprintf("1-%d", len(paragraphs))
		chunks = append(chunks, models.Chunk{
			Text:        strings.Join(paragraphs, "\n\n"),
			Category:    models.CategoryJourney,
			Subcategory: "narrative",
			Metadata:    meta,
		})
	} else {
		for _, d := range accumulateParagraphs(paragraphs, journeySoftMax, journeyBufferMax) {
			meta := baseMeta()
			meta["paragraphRange"] = fmt.Sprintf("%d-%d", d.startPara, d.endPara)
			chunks = append(chunks, models.Chunk{
				Text:        d.text,
				Category:    models.CategoryJourney,
				Subcategory: "narrative",
				Metadata:    meta,
			})
		}
	}

	annotatePartInfo(chunks)
	return chunks
}

// paraDraft is one accumulated chunk before metadata annotation. startPara and
// endPara are 1-indexed inclusive paragraph positions; overlap text seeded
// from the previous chunk does not count toward the range.
type paraDraft struct {
	text      string
	startPara int
	endPara   int
}

// accumulateParagraphs folds paragraphs into drafts. A draft closes when
// adding the next paragraph would exceed softMax, unless the total stays
// within bufferMax and the paragraph is short or the document's last. On
// close, the last complete sentence of the draft seeds the next one.
func accumulateParagraphs(paragraphs []string, softMax, bufferMax int) []paraDraft {
	var drafts []paraDraft
	var parts []string
	words := 0
	start := 1

	flush := func(end int) string {
		text := strings.Join(parts, "\n\n")
		drafts = append(drafts, paraDraft{text: text, startPara: start, endPara: end})
		return textbound.SmartOverlap(text)
	}

	for i, p := range paragraphs {
		pw := wordCount(p)
		last := i == len(paragraphs)-1

		if len(parts) > 0 && words+pw > softMax {
			withinBuffer := words+pw <= bufferMax && (pw < shortParagraphWords || last)
			if !withinBuffer {
				overlap := flush(i) // paragraphs are 1-indexed; previous ended at i
				parts = nil
				words = 0
				start = i + 1
				if overlap != "" {
					parts = append(parts, overlap)
					words = wordCount(overlap)
				}
			}
		}

		parts = append(parts, p)
		words += pw
	}
	if len(parts) > 0 {
		flush(len(paragraphs))
	}

	return drafts
}

// annotatePartInfo stamps every chunk with its "Part i of N" position marker,
// composing with any section-local part tag left by the markdown chunker.
func annotatePartInfo(chunks []models.Chunk) {
	n := len(chunks)
	for i := range chunks {
		info := fmt.Sprintf("Part %d of %d", i+1, n)
		if sp, ok := chunks[i].Metadata["sectionPart"].(string); ok && sp != "" {
			info = fmt.Sprintf("%s (%s)", info, sp)
		}
		chunks[i].Metadata["partInfo"] = info
	}
}
