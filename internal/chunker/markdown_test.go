package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umang00/companion-backend/internal/models"
)

var testRepo = RepoMetadata{
	Name:        "companion-backend",
	Description: "Personal AI companion service",
	Language:    "Go",
	Stars:       42,
	Topics:      []string{"rag", "pgvector"},
}

const sampleReadme = `# Overview
A backend that answers questions about me.

# Installation
Clone the repo and run make.

# Usage
Start the server and POST to /api/v1/chat.
`

func TestChunkGitHubSectionPerHeader(t *testing.T) {
	chunks := ChunkGitHub(sampleReadme, testRepo, "companion-backend", 2025)
	require.Len(t, chunks, 3)

	for _, c := range chunks {
		require.NoError(t, c.Validate())
		assert.Equal(t, models.CategoryGitHub, c.Category)
		assert.Equal(t, "companion-backend", c.Source())
		assert.Equal(t, 2025, c.Metadata["year"])
		assert.True(t, strings.HasPrefix(c.Text, "Repository: companion-backend\n"),
			"every chunk carries the repo preamble")
		assert.Contains(t, c.Text, "Stars: 42")
		assert.Contains(t, c.Text, "Topics: rag, pgvector")
	}

	assert.Equal(t, "overview", chunks[0].Subcategory)
	assert.Equal(t, "installation", chunks[1].Subcategory)
	assert.Equal(t, "usage", chunks[2].Subcategory)
	assert.Equal(t, "Installation", chunks[1].Metadata["section"])
	assert.Contains(t, chunks[1].Text, "run make")
	assert.NotContains(t, chunks[1].Text, "POST to /api/v1/chat")
}

func TestChunkGitHubNoHeadersParagraphFallback(t *testing.T) {
	text := "just a plain description of the project with no headers at all.\n\nand a second paragraph."
	chunks := ChunkGitHub(text, testRepo, "companion-backend", 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, "readme", chunks[0].Subcategory)
	assert.Equal(t, "1-2", chunks[0].Metadata["paragraphRange"])
	assert.True(t, strings.HasPrefix(chunks[0].Text, "Repository: companion-backend\n"))
}

func TestChunkGitHubNoHeadersRespectsWordBudget(t *testing.T) {
	var paras []string
	for i := 0; i < 4; i++ {
		tag := fmt.Sprintf("s%d", i)
		paras = append(paras, paragraphOfWords(240, tag)+" End of "+tag+".")
	}
	text := strings.Join(paras, "\n\n")

	chunks := ChunkGitHub(text, testRepo, "companion-backend", 0)
	require.Len(t, chunks, 2)

	// The first chunk closes once a third paragraph would push it past the
	// 600-word target, not at the 800-word hard max.
	assert.Equal(t, "1-2", chunks[0].Metadata["paragraphRange"])
	assert.Equal(t, "3-4", chunks[1].Metadata["paragraphRange"])
	for _, c := range chunks {
		body := strings.SplitN(c.Text, "\n\n", 2)[1]
		assert.LessOrEqual(t, wordCount(body), readmeTargetWords)
	}
}

func TestChunkGitHubOversizedSectionSplits(t *testing.T) {
	var paras []string
	for i := 0; i < 4; i++ {
		paras = append(paras, paragraphOfWords(300, fmt.Sprintf("s%d", i)))
	}
	text := "# Design\n" + strings.Join(paras, "\n\n")

	chunks := ChunkGitHub(text, testRepo, "companion-backend", 0)
	require.Greater(t, len(chunks), 1)

	for j, c := range chunks {
		assert.Equal(t, "design", c.Subcategory)
		assert.Equal(t, "Design", c.Metadata["section"])
		sp, _ := c.Metadata["sectionPart"].(string)
		assert.Equal(t, fmt.Sprintf("Design Part %d of %d", j+1, len(chunks)), sp)
		// Document-wide part info composes with the section-local tag.
		assert.Equal(t,
			fmt.Sprintf("Part %d of %d (%s)", j+1, len(chunks), sp),
			c.Metadata["partInfo"])
	}
}

func TestChunkGitHubEmptyReadme(t *testing.T) {
	assert.Empty(t, ChunkGitHub("", testRepo, "companion-backend", 0))
}

func TestRepoPreambleOmitsEmptyFields(t *testing.T) {
	p := RepoMetadata{Name: "tiny", Stars: 0}.preamble()
	assert.Contains(t, p, "Repository: tiny\n")
	assert.Contains(t, p, "Stars: 0\n")
	assert.NotContains(t, p, "Description:")
	assert.NotContains(t, p, "Language:")
	assert.NotContains(t, p, "Topics:")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "getting-started", slugify("# Getting Started"))
	assert.Equal(t, "api-reference", slugify("API Reference!"))
}
