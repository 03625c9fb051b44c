package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Umang00/companion-backend/internal/changedetect"
)

// PDFLoader discovers and extracts text from PDF documents in a directory.
type PDFLoader struct {
	dir string
}

func NewPDFLoader(dir string) *PDFLoader {
	return &PDFLoader{dir: dir}
}

// List returns the basenames of all PDFs in the documents directory.
func (l *PDFLoader) List() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("glob documents dir: %w", err)
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names, nil
}

// Load reads and extracts one PDF. The content hash and file size are
// computed here so the orchestrator records metadata from the same bytes it
// chunked.
func (l *PDFLoader) Load(ctx context.Context, filename string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.dir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF %s: %w", filename, err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return &Document{
		Filename: filename,
		Content:  buf.String(),
		Type:     ClassifyFilename(filename),
		Pages:    numPages,
		Year:     YearFromFilename(filename),
		FileSize: int64(len(data)),
		Hash:     changedetect.HashBytes(data),
	}, nil
}

var (
	yearRe    = regexp.MustCompile(`20\d{2}`)
	journeyRe = regexp.MustCompile(`fy[-_ ]?\d{2}`)
)

// ClassifyFilename decides the document type from naming conventions:
// "resume"/"cv" → resume, "linkedin" → linkedin, "journey"/fiscal-year labels
// → journey, anything else → generic.
func ClassifyFilename(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "linkedin"):
		return DocTypeLinkedIn
	case strings.Contains(lower, "resume"), strings.Contains(lower, "cv"):
		return DocTypeResume
	case strings.Contains(lower, "journey"), journeyRe.MatchString(lower):
		return DocTypeJourney
	default:
		return DocTypeGeneric
	}
}

// YearFromFilename pulls a four-digit year out of the filename, or 0.
func YearFromFilename(filename string) int {
	m := yearRe.FindString(filename)
	if m == "" {
		return 0
	}
	y, _ := strconv.Atoi(m)
	return y
}
