// Package chunker turns raw document text into ordered chunk records using
// type-specific boundary heuristics. Chunkers never fail; when a document
// defeats every heuristic they degrade to coarser fixed-size grouping.
package chunker

import (
	"strings"
)

// sectionVocabulary maps recognized section header text (upper-cased, trailing
// colon stripped) to a normalized section name. Shared by the resume and
// LinkedIn chunkers; LinkedIn adds a few export-only headers on top.
var sectionVocabulary = map[string]string{
	"EXPERIENCE":              "experience",
	"WORK EXPERIENCE":         "experience",
	"PROFESSIONAL EXPERIENCE": "experience",
	"EMPLOYMENT":              "experience",
	"EMPLOYMENT HISTORY":      "experience",
	"EDUCATION":               "education",
	"SKILLS":                  "skills",
	"TECHNICAL SKILLS":        "skills",
	"CORE COMPETENCIES":       "skills",
	"TOP SKILLS":              "skills",
	"PROJECTS":                "projects",
	"PERSONAL PROJECTS":       "projects",
	"CERTIFICATIONS":          "certifications",
	"LICENSES & CERTIFICATIONS": "certifications",
	"SUMMARY":                 "summary",
	"PROFESSIONAL SUMMARY":    "summary",
	"ABOUT":                   "summary",
	"ABOUT ME":                "summary",
	"OBJECTIVE":               "summary",
	"PROFILE":                 "summary",
	"VOLUNTEER":               "volunteer",
	"VOLUNTEERING":            "volunteer",
	"VOLUNTEER EXPERIENCE":    "volunteer",
	"AWARDS":                  "awards",
	"HONORS & AWARDS":         "awards",
	"HONORS":                  "awards",
	"PUBLICATIONS":            "publications",
	"LANGUAGES":               "languages",
	"INTERESTS":               "interests",
}

// linkedInVocabulary holds headers that only appear in LinkedIn exports.
var linkedInVocabulary = map[string]string{
	"RECOMMENDATIONS":  "recommendations",
	"ACCOMPLISHMENTS":  "accomplishments",
	"ACTIVITIES":       "activities",
	"CONTACT":          "contact",
}

// catchAllSection collects leading lines that precede any recognized header.
const catchAllSection = "about_me"

// documentSections is an ordered section → lines mapping.
type documentSections struct {
	order []string
	lines map[string][]string
}

func (s *documentSections) add(name, line string) {
	if _, ok := s.lines[name]; !ok {
		s.order = append(s.order, name)
	}
	s.lines[name] = append(s.lines[name], line)
}

// splitSections runs a line-classification pass over the document: each line
// either opens a known section or belongs to the current one. Lines before
// the first recognized header land in the catch-all section, so an entirely
// unsectioned document still succeeds.
func splitSections(lines []string, extra map[string]string) *documentSections {
	secs := &documentSections{lines: make(map[string][]string)}
	current := catchAllSection
	for _, line := range lines {
		if name, ok := matchSectionHeader(line, extra); ok {
			current = name
			if _, seen := secs.lines[name]; !seen {
				secs.order = append(secs.order, name)
				secs.lines[name] = nil
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		secs.add(current, line)
	}
	return secs
}

func matchSectionHeader(line string, extra map[string]string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	normalized = strings.TrimSpace(strings.TrimLeft(normalized, "# "))
	if name, ok := sectionVocabulary[normalized]; ok {
		return name, true
	}
	if extra != nil {
		if name, ok := extra[normalized]; ok {
			return name, true
		}
	}
	return "", false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
