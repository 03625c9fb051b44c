package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Umang00/companion-backend/internal/models"
	"github.com/Umang00/companion-backend/pkg/textbound"
)

// Word budget for README sections; looser than journey documents since
// technical sections read fine at greater length.
const (
	readmeTargetWords = 600
	readmeMaxWords    = 800
)

// RepoMetadata is the repository context prepended to every GitHub chunk so a
// retrieved README fragment still identifies its project.
type RepoMetadata struct {
	Name        string
	Description string
	Language    string
	Stars       int
	Topics      []string
}

func (r RepoMetadata) preamble() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Repository: %s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", r.Description)
	}
	if r.Language != "" {
		fmt.Fprintf(&sb, "Language: %s\n", r.Language)
	}
	fmt.Fprintf(&sb, "Stars: %d\n", r.Stars)
	if len(r.Topics) > 0 {
		fmt.Fprintf(&sb, "Topics: %s\n", strings.Join(r.Topics, ", "))
	}
	sb.WriteString("\n")
	return sb.String()
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(header string) string {
	s := strings.ToLower(strings.TrimSpace(strings.TrimLeft(header, "# ")))
	s = slugCleanRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ChunkGitHub splits a README into header-bounded section chunks, each
// prefixed with the repository metadata preamble. READMEs without any
// detectable headers fall back to paragraph chunking with the same overlap
// mechanics as journey documents, at the looser README budget.
func ChunkGitHub(text string, repo RepoMetadata, source string, year int) []models.Chunk {
	preamble := repo.preamble()

	baseMeta := func() map[string]any {
		m := map[string]any{"source": source}
		if year != 0 {
			m["year"] = year
		}
		return m
	}

	headers := textbound.SectionHeaders(text)

	var chunks []models.Chunk
	if len(headers) == 0 {
		for _, d := range accumulateParagraphs(textbound.Paragraphs(text), readmeTargetWords, readmeMaxWords) {
			meta := baseMeta()
			meta["paragraphRange"] = fmt.Sprintf("%d-%d", d.startPara, d.endPara)
			chunks = append(chunks, models.Chunk{
				Text:        preamble + d.text,
				Category:    models.CategoryGitHub,
				Subcategory: "readme",
				Metadata:    meta,
			})
		}
		annotatePartInfo(chunks)
		return chunks
	}

	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1].Position
		}
		section := strings.TrimSpace(text[h.Position:end])
		if section == "" {
			continue
		}

		headerName := strings.TrimSpace(strings.TrimLeft(h.Header, "# "))
		slug := slugify(h.Header)

		if wordCount(section) <= readmeMaxWords {
			meta := baseMeta()
			meta["section"] = headerName
			chunks = append(chunks, models.Chunk{
				Text:        preamble + section,
				Category:    models.CategoryGitHub,
				Subcategory: slug,
				Metadata:    meta,
			})
			continue
		}

		// Oversized section: paragraph split with smart overlap, tagged with
		// a section-local part marker.
		drafts := accumulateParagraphs(textbound.Paragraphs(section), readmeTargetWords, readmeMaxWords)
		for j, d := range drafts {
			meta := baseMeta()
			meta["section"] = headerName
			meta["sectionPart"] = fmt.Sprintf("%s Part %d of %d", headerName, j+1, len(drafts))
			chunks = append(chunks, models.Chunk{
				Text:        preamble + d.text,
				Category:    models.CategoryGitHub,
				Subcategory: slug,
				Metadata:    meta,
			})
		}
	}

	annotatePartInfo(chunks)
	return chunks
}
