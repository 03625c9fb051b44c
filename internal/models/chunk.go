package models

import (
	"fmt"
	"strings"
)

// Document categories. Categories never contain underscores; retrieval filter
// keys join category and subcategory with one, so an underscore here would
// make the keys ambiguous.
const (
	CategoryResume   = "resume"
	CategoryLinkedIn = "linkedin"
	CategoryJourney  = "journey"
	CategoryGitHub   = "github"
	CategoryGeneric  = "generic"
)

// Chunk is the atomic retrieval unit: a bounded span of document text plus
// classification metadata. Chunks are produced in-memory by a chunker, then
// embedded and persisted as vector documents.
type Chunk struct {
	Text        string         `json:"text"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory,omitempty"`
	Metadata    map[string]any `json:"metadata"`
}

// Source returns the originating filename or repo name.
func (c Chunk) Source() string {
	if c.Metadata == nil {
		return ""
	}
	s, _ := c.Metadata["source"].(string)
	return s
}

// Validate enforces chunk quality invariants before storage.
func (c Chunk) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("chunk has empty text")
	}
	if c.Category == "" {
		return fmt.Errorf("chunk has no category")
	}
	if strings.Contains(c.Category, "_") {
		return fmt.Errorf("category %q contains underscore", c.Category)
	}
	if c.Source() == "" {
		return fmt.Errorf("chunk has no source in metadata")
	}
	return nil
}
