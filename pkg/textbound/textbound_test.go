package textbound

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\n\n\nThird.\n"
	paras := Paragraphs(text)
	require.Len(t, paras, 3)
	assert.Equal(t, "First paragraph.", paras[0])
	assert.Equal(t, "Third.", paras[2])
}

func TestParagraphsBlankLinesWithWhitespace(t *testing.T) {
	text := "One.\n   \nTwo."
	paras := Paragraphs(text)
	require.Len(t, paras, 2)
}

func TestParagraphsEmpty(t *testing.T) {
	assert.Empty(t, Paragraphs("   \n\n  "))
}

func TestSentencesBasic(t *testing.T) {
	got := Sentences("First sentence. Second sentence! Third?")
	require.Len(t, got, 3)
	assert.Equal(t, "First sentence.", got[0])
	assert.Equal(t, "Second sentence!", got[1])
	assert.Equal(t, "Third?", got[2])
}

func TestSentencesAbbreviationsSurvive(t *testing.T) {
	got := Sentences("I met Dr. Smith at Acme Inc. yesterday. It went well.")
	require.Len(t, got, 2)
	assert.Equal(t, "I met Dr. Smith at Acme Inc. yesterday.", got[0])
}

func TestSentencesDecimalsSurvive(t *testing.T) {
	got := Sentences("Pi is about 3.14 in value. Tau is larger.")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "3.14")
}

func TestSentencesLatinAbbrevs(t *testing.T) {
	got := Sentences("Use short names, e.g. foo. Long names hurt.")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "e.g. foo.")
}

func TestSmartOverlapReturnsLastSentence(t *testing.T) {
	text := "The year started slow. Then things picked up. We shipped the redesign in March."
	assert.Equal(t, "We shipped the redesign in March.", SmartOverlap(text))
}

func TestSmartOverlapEmpty(t *testing.T) {
	assert.Equal(t, "", SmartOverlap("   "))
}

func TestFindNaturalBoundaryParagraphPreferred(t *testing.T) {
	// Sentence end shortly after target, paragraph break a bit later.
	text := strings.Repeat("a", 100) + ". more text here\n\nnext paragraph " + strings.Repeat("b", 300)
	pos := FindNaturalBoundary(text, 90, true)
	assert.Equal(t, "\n\n", text[pos:pos+2])
}

func TestFindNaturalBoundaryEarliestWins(t *testing.T) {
	text := strings.Repeat("a", 100) + ". tail\n\nnext " + strings.Repeat("b", 400)
	pos := FindNaturalBoundary(text, 90, false)
	// The sentence end at offset 101 precedes the paragraph break.
	assert.Equal(t, 101, pos)
}

func TestFindNaturalBoundaryPastEnd(t *testing.T) {
	assert.Equal(t, 5, FindNaturalBoundary("short", 50, true))
}

func TestFindNaturalBoundaryNoBoundary(t *testing.T) {
	text := strings.Repeat("x", 1000)
	assert.Equal(t, 500, FindNaturalBoundary(text, 500, false))
}

func TestSectionHeaders(t *testing.T) {
	text := "# Installation\nrun make\nUSAGE\nsome usage\nGetting Started Guide\nbody"
	headers := SectionHeaders(text)
	require.Len(t, headers, 3)
	assert.Equal(t, HeaderMarkdown, headers[0].Type)
	assert.Equal(t, "# Installation", headers[0].Header)
	assert.Equal(t, HeaderAllCaps, headers[1].Type)
	assert.Equal(t, HeaderTitleCase, headers[2].Type)
	assert.True(t, headers[0].Position < headers[1].Position)
}

func TestSectionHeadersIgnoresLongLines(t *testing.T) {
	text := "# " + strings.Repeat("word ", 20)
	assert.Empty(t, SectionHeaders(text))
}

func TestYearRange(t *testing.T) {
	assert.Equal(t, "2019-2023", YearRange("Acme | Engineer 2019 - 2023"))
	assert.Equal(t, "2021-Present", YearRange("2021 - Present"))
	assert.Equal(t, "", YearRange("no dates here"))
}

func TestParseHeaderMetadataPipeWithIndustry(t *testing.T) {
	meta := ParseHeaderMetadata("Acme Corp (Tech) | Senior Engineer")
	assert.Equal(t, "Acme Corp", meta.Company)
	assert.Equal(t, "Senior Engineer", meta.Position)
	assert.Equal(t, "Tech", meta.Industry)
}

func TestParseHeaderMetadataReversedOrder(t *testing.T) {
	meta := ParseHeaderMetadata("Senior Engineer | Acme Corp")
	assert.Equal(t, "Acme Corp", meta.Company)
	assert.Equal(t, "Senior Engineer", meta.Position)
}

func TestParseHeaderMetadataDateAndLocation(t *testing.T) {
	meta := ParseHeaderMetadata("Acme Corp | Manager 2019 - 2021, Austin, TX")
	assert.Equal(t, "2019-2021", meta.DateRange)
	assert.Equal(t, "Austin, TX", meta.Location)
}

func TestLooksLikePosition(t *testing.T) {
	assert.True(t, LooksLikePosition("Staff Software Engineer"))
	assert.False(t, LooksLikePosition("Acme Holdings"))
}
