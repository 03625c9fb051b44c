package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkValidate(t *testing.T) {
	valid := Chunk{
		Text:     "some text",
		Category: CategoryResume,
		Metadata: map[string]any{"source": "resume.pdf"},
	}
	assert.NoError(t, valid.Validate())

	empty := valid
	empty.Text = "   "
	assert.Error(t, empty.Validate())

	noCat := valid
	noCat.Category = ""
	assert.Error(t, noCat.Validate())

	underscore := valid
	underscore.Category = "resume_experience"
	assert.Error(t, underscore.Validate(), "underscores would collide with filter keys")

	noSource := valid
	noSource.Metadata = map[string]any{}
	assert.Error(t, noSource.Validate())
}

func TestChunkSource(t *testing.T) {
	c := Chunk{Metadata: map[string]any{"source": "resume.pdf"}}
	assert.Equal(t, "resume.pdf", c.Source())
	assert.Equal(t, "", Chunk{}.Source())
}
