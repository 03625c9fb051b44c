// Package loader supplies raw document text to the index pipeline: local PDF
// files and remote GitHub READMEs. The rest of the pipeline never performs
// its own I/O.
package loader

import "time"

// Document type labels, decided from the filename.
const (
	DocTypeResume   = "resume"
	DocTypeLinkedIn = "linkedin"
	DocTypeJourney  = "journey"
	DocTypeGeneric  = "generic"
)

// Document is a loaded local source file.
type Document struct {
	Filename string
	Content  string
	Type     string
	Pages    int
	Year     int
	FileSize int64
	Hash     string
}

// Repo is a loaded remote repository with its README.
type Repo struct {
	Name        string
	Description string
	Language    string
	Stars       int
	Topics      []string
	Readme      string
	UpdatedAt   time.Time
}
