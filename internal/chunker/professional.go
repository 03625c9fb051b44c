package chunker

import (
	"regexp"
	"strings"

	"github.com/Umang00/companion-backend/internal/models"
	"github.com/Umang00/companion-backend/pkg/textbound"
)

const (
	// minEntryLines is how many lines an experience entry must accumulate
	// before a new-entry signal is allowed to close it. Keeps a date line
	// directly under a header from splitting one job into two.
	minEntryLines = 5

	// fallbackWindowLines is the fixed grouping used when no entry
	// boundaries are detected at all.
	fallbackWindowLines = 12

	educationGroupLines = 5
)

var (
	pipeLineRe       = regexp.MustCompile(`\|`)
	companyParenRe   = regexp.MustCompile(`^[^()]{2,60}\([^)]+\)\s*$`)
	bulletPrefixes   = []string{"-", "•", "*", "–"}
	entryLocationRe  = regexp.MustCompile(`^([A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+)*),\s*([A-Z]{2}\b|[A-Z][a-zA-Z]+)\s*$`)
)

// ChunkResume splits a resume into per-section chunks, with the experience
// section further split into one chunk per job entry.
func ChunkResume(text, source string) []models.Chunk {
	return chunkProfessional(text, source, models.CategoryResume, nil)
}

// ChunkLinkedIn handles LinkedIn profile exports; same mechanics as resumes
// with a few extra section headers.
func ChunkLinkedIn(text, source string) []models.Chunk {
	return chunkProfessional(text, source, models.CategoryLinkedIn, linkedInVocabulary)
}

func chunkProfessional(text, source, category string, extraSections map[string]string) []models.Chunk {
	lines := strings.Split(text, "\n")
	secs := splitSections(lines, extraSections)

	var chunks []models.Chunk
	for _, name := range secs.order {
		sectionLines := secs.lines[name]
		if len(sectionLines) == 0 {
			continue
		}
		switch name {
		case "experience":
			chunks = append(chunks, chunkExperience(sectionLines, source, category)...)
		case "education":
			chunks = append(chunks, chunkLineGroups(sectionLines, source, category, "education", educationGroupLines)...)
		default:
			chunks = append(chunks, models.Chunk{
				Text:        strings.Join(sectionLines, "\n"),
				Category:    category,
				Subcategory: name,
				Metadata: map[string]any{
					"source":  source,
					"section": name,
				},
			})
		}
	}

	for i := range chunks {
		chunks[i].Metadata["chunkIndex"] = i
	}
	return chunks
}

// isNewEntrySignal reports whether a line looks like the start of a new job
// entry: pipe-delimited, "Company (Industry)", or a year range.
func isNewEntrySignal(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isBulletLine(trimmed) {
		return false
	}
	if pipeLineRe.MatchString(trimmed) {
		return true
	}
	if companyParenRe.MatchString(trimmed) {
		return true
	}
	return textbound.YearRange(trimmed) != ""
}

func isBulletLine(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func chunkExperience(lines []string, source, category string) []models.Chunk {
	var entries [][]string
	var current []string
	boundaries := 0

	for _, line := range lines {
		if isNewEntrySignal(line) && len(current) >= minEntryLines {
			entries = append(entries, current)
			current = nil
			boundaries++
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		entries = append(entries, current)
	}

	// No boundaries at all: fall back to fixed windows.
	if boundaries == 0 && len(lines) > fallbackWindowLines {
		return chunkLineGroups(lines, source, category, "experience", fallbackWindowLines)
	}

	chunks := make([]models.Chunk, 0, len(entries))
	for _, entry := range entries {
		chunks = append(chunks, buildExperienceChunk(entry, source, category))
	}
	return chunks
}

func buildExperienceChunk(entry []string, source, category string) models.Chunk {
	meta := map[string]any{
		"source":  source,
		"section": "experience",
	}

	// The entry header carries company/position/industry; the body may later
	// supply the date range and location.
	header := textbound.ParseHeaderMetadata(strings.TrimSpace(entry[0]))
	if header.Company != "" {
		meta["company"] = header.Company
	}
	if header.Position != "" {
		meta["position"] = header.Position
	}
	if header.Industry != "" {
		meta["industry"] = header.Industry
	}

	for _, line := range entry {
		trimmed := strings.TrimSpace(line)
		if _, ok := meta["dateRange"]; !ok {
			if dr := textbound.YearRange(trimmed); dr != "" {
				meta["dateRange"] = dr
			}
		}
		if _, ok := meta["location"]; !ok && !isBulletLine(trimmed) {
			if m := entryLocationRe.FindStringSubmatch(trimmed); m != nil {
				meta["location"] = m[1] + ", " + m[2]
			}
		}
	}

	return models.Chunk{
		Text:        strings.Join(entry, "\n"),
		Category:    category,
		Subcategory: "experience",
		Metadata:    meta,
	}
}

func chunkLineGroups(lines []string, source, category, section string, groupSize int) []models.Chunk {
	var chunks []models.Chunk
	for start := 0; start < len(lines); start += groupSize {
		end := start + groupSize
		if end > len(lines) {
			end = len(lines)
		}
		group := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(group) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Text:        group,
			Category:    category,
			Subcategory: section,
			Metadata: map[string]any{
				"source":  source,
				"section": section,
			},
		})
	}
	return chunks
}
