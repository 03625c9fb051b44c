package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFilename(t *testing.T) {
	cases := map[string]string{
		"Resume_2024.pdf":         DocTypeResume,
		"my-cv-final.pdf":         DocTypeResume,
		"LinkedIn_Profile.pdf":    DocTypeLinkedIn,
		"linkedin-resume.pdf":     DocTypeLinkedIn,
		"journey-2023.pdf":        DocTypeJourney,
		"FY23-24 reflections.pdf": DocTypeJourney,
		"random-notes.pdf":        DocTypeGeneric,
	}
	for name, want := range cases {
		assert.Equal(t, want, ClassifyFilename(name), name)
	}
}

func TestYearFromFilename(t *testing.T) {
	assert.Equal(t, 2023, YearFromFilename("journey-2023.pdf"))
	assert.Equal(t, 0, YearFromFilename("resume.pdf"))
}

func TestListReturnsBasenames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	names, err := NewPDFLoader(dir).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"resume.pdf"}, names)
}
