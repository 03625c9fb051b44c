package textbound

import (
	"regexp"
	"strings"
)

// Header classification kinds.
const (
	HeaderMarkdown  = "markdown"
	HeaderAllCaps   = "all_caps"
	HeaderTitleCase = "title_case"
)

// SectionHeader is a detected section boundary within a document.
type SectionHeader struct {
	Header   string
	Position int // byte offset of the line start
	Type     string
}

const maxHeaderLen = 60

var titleCaseRe = regexp.MustCompile(`^(?:[A-Z][a-z]+)(?:\s+(?:[A-Z][a-z]+|of|and|the|for|&))*$`)

// SectionHeaders classifies each line of text as a markdown header
// (#-prefixed), an all-caps header (short, uppercase, contains a letter), or
// a title-case header. Results are ordered by position.
func SectionHeaders(text string) []SectionHeader {
	var headers []SectionHeader
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if kind, ok := classifyHeader(trimmed); ok {
			headers = append(headers, SectionHeader{
				Header:   trimmed,
				Position: offset,
				Type:     kind,
			})
		}
		offset += len(line) + 1
	}
	return headers
}

func classifyHeader(line string) (string, bool) {
	if line == "" || len(line) > maxHeaderLen {
		return "", false
	}
	if strings.HasPrefix(line, "#") {
		return HeaderMarkdown, true
	}
	if isAllCapsHeader(line) {
		return HeaderAllCaps, true
	}
	if titleCaseRe.MatchString(line) && strings.Contains(line, " ") {
		return HeaderTitleCase, true
	}
	return "", false
}

func isAllCapsHeader(line string) bool {
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// HeaderMetadata holds fields heuristically extracted from an entry header.
type HeaderMetadata struct {
	Company   string
	Position  string
	Industry  string
	DateRange string
	Location  string
}

var positionKeywords = []string{
	"manager", "engineer", "developer", "director", "analyst", "consultant",
	"designer", "lead", "head", "officer", "specialist", "architect",
	"scientist", "intern", "founder", "president", "vp", "cto", "ceo",
}

var (
	yearRangeRe        = regexp.MustCompile(`(?:19|20)\d{2}\s*[-–—]\s*(?:(?:19|20)\d{2}|[Pp]resent|[Cc]urrent)`)
	companyIndustryRe  = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)`)
	locationRe         = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+)*),\s*([A-Z]{2}\b|[A-Z][a-zA-Z]+)`)
)

// LooksLikePosition reports whether s matches a curated list of job-title
// keywords. It is the tie-break for ambiguous "X | Y" headers.
func LooksLikePosition(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range positionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ParseHeaderMetadata extracts company/position/industry from pipe-delimited
// or parenthetical header formats, a date range via a year-range pattern, and
// a location via a "City, State" pattern. All fields are best-effort.
func ParseHeaderMetadata(header string) HeaderMetadata {
	var meta HeaderMetadata

	working := header
	if m := yearRangeRe.FindString(working); m != "" {
		meta.DateRange = strings.Join(strings.Fields(m), "")
		working = strings.Replace(working, m, "", 1)
	}

	if strings.Contains(working, "|") {
		parts := strings.SplitN(working, "|", 2)
		left := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])
		switch {
		case LooksLikePosition(right) && !LooksLikePosition(left):
			meta.Company, meta.Position = left, right
		case LooksLikePosition(left) && !LooksLikePosition(right):
			meta.Company, meta.Position = right, left
		default:
			meta.Company, meta.Position = left, right
		}
	}

	// A parenthetical after the company name reads as its industry:
	// "Acme Corp (Tech)".
	target := meta.Company
	if target == "" {
		target = working
	}
	if m := companyIndustryRe.FindStringSubmatch(target); m != nil {
		meta.Company = strings.TrimSpace(m[1])
		meta.Industry = strings.TrimSpace(m[2])
	}

	if m := locationRe.FindStringSubmatch(header); m != nil {
		meta.Location = m[1] + ", " + m[2]
	}

	return meta
}

// YearRange returns the first year-range match in text, normalized to have no
// interior spaces, or "" when absent.
func YearRange(text string) string {
	m := yearRangeRe.FindString(text)
	if m == "" {
		return ""
	}
	return strings.Join(strings.Fields(m), "")
}
