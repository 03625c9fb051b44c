// Package textbound provides text-boundary analysis used by the chunkers:
// paragraph and sentence segmentation, natural cut-point lookahead, section
// header detection, and overlap computation.
package textbound

import (
	"regexp"
	"strings"
)

// Lookahead windows for FindNaturalBoundary, in characters.
const (
	paragraphWindow         = 200
	sentenceWindow          = 300
	paragraphFallbackWindow = 400
)

var paragraphSplitRe = regexp.MustCompile(`\n[ \t]*\n+`)

// Paragraphs splits text on one-or-more blank lines, trimming each paragraph
// and dropping empties. Order is preserved.
func Paragraphs(text string) []string {
	parts := paragraphSplitRe.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// sentinel temporarily stands in for periods that do not end a sentence
// (abbreviations, decimals) so the splitter won't cut on them.
const sentinel = '\x01'

var abbreviations = []string{
	"Dr", "Mr", "Mrs", "Ms", "Prof", "Sr", "Jr", "St",
	"vs", "etc", "approx", "dept", "est", "min", "max",
	"Inc", "Ltd", "Co", "Corp", "No",
}

var (
	abbrevRes = buildAbbrevPatterns()
	decimalRe = regexp.MustCompile(`(\d)\.(\d)`)
	// i.e. and e.g. carry interior periods, handled as literal replacements.
	latinAbbrevs = []string{"i.e.", "e.g.", "i.e", "e.g"}
)

func buildAbbrevPatterns() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(abbreviations))
	for _, a := range abbreviations {
		res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(a)+`\.`))
	}
	return res
}

// Sentences splits text into sentences on [.!?] followed by whitespace.
// Known abbreviations and decimal points are neutralized with a sentinel
// before splitting and restored after, so "Dr. Smith" and "3.14" survive
// intact without pulling in a full NLP dependency.
func Sentences(text string) []string {
	masked := text
	for _, la := range latinAbbrevs {
		masked = strings.ReplaceAll(masked, la, strings.ReplaceAll(la, ".", string(sentinel)))
	}
	for _, re := range abbrevRes {
		masked = re.ReplaceAllStringFunc(masked, func(m string) string {
			return strings.ReplaceAll(m, ".", string(sentinel))
		})
	}
	masked = decimalRe.ReplaceAllString(masked, "$1"+string(sentinel)+"$2")

	var sentences []string
	var current strings.Builder
	runes := []rune(masked)
	for i, r := range runes {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && isSpace(runes[i+1]) {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(strings.ReplaceAll(s, string(sentinel), "."))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// SmartOverlap returns the last complete sentence of the previous chunk's
// text, used to seed the next chunk. The result is deliberately unbounded in
// length: truncating mid-sentence would reintroduce the fragmentation the
// sentence splitter exists to avoid.
func SmartOverlap(previous string) string {
	sentences := Sentences(previous)
	if len(sentences) == 0 {
		return ""
	}
	return sentences[len(sentences)-1]
}

// FindNaturalBoundary looks ahead from target for the nearest acceptable cut
// point: a paragraph break within 200 chars, a sentence end within 300, or a
// paragraph break within 400 as a last resort. When preferParagraph is set, a
// paragraph break inside its window wins over a closer sentence end;
// otherwise the earliest boundary wins. Falls back to the raw target.
func FindNaturalBoundary(text string, target int, preferParagraph bool) int {
	if target >= len(text) {
		return len(text)
	}

	paraPos := paragraphBreakWithin(text, target, paragraphWindow)
	sentPos := sentenceEndWithin(text, target, sentenceWindow)

	switch {
	case preferParagraph && paraPos >= 0:
		return paraPos
	case paraPos >= 0 && sentPos >= 0:
		if paraPos < sentPos {
			return paraPos
		}
		return sentPos
	case sentPos >= 0:
		return sentPos
	case paraPos >= 0:
		return paraPos
	}

	if pos := paragraphBreakWithin(text, target, paragraphFallbackWindow); pos >= 0 {
		return pos
	}
	return target
}

func paragraphBreakWithin(text string, target, window int) int {
	end := target + window
	if end > len(text) {
		end = len(text)
	}
	if idx := strings.Index(text[target:end], "\n\n"); idx >= 0 {
		return target + idx
	}
	return -1
}

func sentenceEndWithin(text string, target, window int) int {
	end := target + window
	if end > len(text) {
		end = len(text)
	}
	for i := target; i < end-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && (text[i+1] == ' ' || text[i+1] == '\n') {
			return i + 1
		}
	}
	return -1
}
