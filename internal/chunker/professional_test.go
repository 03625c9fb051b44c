package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umang00/companion-backend/internal/models"
)

const sampleResume = `John Doe
Software engineer based in Austin.

SUMMARY
Seasoned backend engineer with a focus on distributed systems.

EXPERIENCE
Acme Corp (Tech) | Senior Engineer
2019 - 2023
Austin, TX
- Led the platform team
- Shipped the billing rewrite
- Mentored four engineers
Globex | Staff Engineer
2016 - 2019
- Built the ingestion pipeline
- Cut infra spend by a third
- Ran the oncall rotation
- Owned the data model

EDUCATION
State University
BS Computer Science
2012 - 2016

SKILLS
Go, Postgres, Redis, Kubernetes
`

func TestChunkResumeSections(t *testing.T) {
	chunks := ChunkResume(sampleResume, "resume.pdf")
	require.NotEmpty(t, chunks)

	subcats := make(map[string]int)
	for _, c := range chunks {
		require.NoError(t, c.Validate())
		assert.Equal(t, models.CategoryResume, c.Category)
		assert.Equal(t, "resume.pdf", c.Source())
		subcats[c.Subcategory]++
	}

	assert.Equal(t, 2, subcats["experience"], "one chunk per job entry")
	assert.GreaterOrEqual(t, subcats["education"], 1)
	assert.Equal(t, 1, subcats["skills"])
	assert.Equal(t, 1, subcats["summary"])
	assert.Equal(t, 1, subcats["about_me"], "preamble lines land in the catch-all")
}

func TestChunkResumeExperienceMetadata(t *testing.T) {
	chunks := ChunkResume(sampleResume, "resume.pdf")

	var acme *models.Chunk
	for i := range chunks {
		if chunks[i].Metadata["company"] == "Acme Corp" {
			acme = &chunks[i]
			break
		}
	}
	require.NotNil(t, acme, "Acme entry should be its own chunk")

	assert.Equal(t, "Senior Engineer", acme.Metadata["position"])
	assert.Equal(t, "Tech", acme.Metadata["industry"])
	assert.Equal(t, "2019-2023", acme.Metadata["dateRange"])
	assert.Equal(t, "Austin, TX", acme.Metadata["location"])
	assert.Contains(t, acme.Text, "Led the platform team")
	assert.NotContains(t, acme.Text, "Globex")
}

func TestChunkResumeChunkIndexSequential(t *testing.T) {
	chunks := ChunkResume(sampleResume, "resume.pdf")
	for i, c := range chunks {
		assert.Equal(t, i, c.Metadata["chunkIndex"])
	}
}

func TestChunkExperienceNoBoundariesFallsBackToWindows(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("- did a thing number %d", i))
	}
	text := "EXPERIENCE\n" + strings.Join(lines, "\n")

	chunks := ChunkResume(text, "resume.pdf")
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, "experience", c.Subcategory)
	}
	// 30 lines at a 12-line window is 3 chunks.
	assert.Len(t, chunks, 3)
}

func TestChunkExperienceMinEntryLines(t *testing.T) {
	// The date line right under the header must not split the entry in two.
	text := strings.Join([]string{
		"EXPERIENCE",
		"Acme Corp | Senior Engineer",
		"2019 - 2023",
		"- one",
		"- two",
		"- three",
	}, "\n")

	chunks := ChunkResume(text, "resume.pdf")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "2019 - 2023")
}

func TestChunkLinkedInExtraSections(t *testing.T) {
	text := strings.Join([]string{
		"TOP SKILLS",
		"Go",
		"Postgres",
		"RECOMMENDATIONS",
		"A glowing note from a colleague.",
	}, "\n")

	chunks := ChunkLinkedIn(text, "linkedin.pdf")
	require.Len(t, chunks, 2)
	assert.Equal(t, models.CategoryLinkedIn, chunks[0].Category)
	assert.Equal(t, "skills", chunks[0].Subcategory)
	assert.Equal(t, "recommendations", chunks[1].Subcategory)
}

func TestChunkResumeEmptyText(t *testing.T) {
	assert.Empty(t, ChunkResume("", "resume.pdf"))
}
