package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOf_StructuredFamilies(t *testing.T) {
	tests := []struct {
		name   string
		format FileFormat
	}{
		{"lecture.pdf", FormatPDF},
		{"scan.png", FormatImage},
		{"photo.jpg", FormatImage},
		{"photo.jpeg", FormatImage},
		{"NOTES.PDF", FormatPDF},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			format, ok := FormatOf(tc.name)
			require.True(t, ok)
			assert.Equal(t, tc.format, format)
		})
	}
}

func TestFormatOf_TextFamily(t *testing.T) {
	for _, name := range []string{
		"notes.txt", "notes.text", "readme.md", "readme.markdown",
		"doc.rst", "todo.org", "paper.tex", "table.csv", "data.json", "run.log",
	} {
		t.Run(name, func(t *testing.T) {
			format, ok := FormatOf(name)
			require.True(t, ok)
			assert.Equal(t, FormatText, format)
		})
	}
}

func TestFormatOf_UnrecognizedExtension(t *testing.T) {
	for _, name := range []string{"deck.pptx", "sheet.xlsx", "archive.zip", "binary.exe", "video.mp4"} {
		t.Run(name, func(t *testing.T) {
			_, ok := FormatOf(name)
			assert.False(t, ok)
		})
	}
}

func TestFormatOf_NoExtension(t *testing.T) {
	_, ok := FormatOf("README")
	assert.False(t, ok)

	_, ok = FormatOf("")
	assert.False(t, ok)
}

func TestFormatOf_OnlyFinalExtensionCounts(t *testing.T) {
	// notes.txt.zip must not fall back to the txt family.
	_, ok := FormatOf("notes.txt.zip")
	assert.False(t, ok)

	format, ok := FormatOf("archive.zip.txt")
	require.True(t, ok)
	assert.Equal(t, FormatText, format)
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "jpg", NormalizeExt("jpg"))
	assert.Equal(t, "", NormalizeExt(""))
}

func TestExtOf(t *testing.T) {
	assert.Equal(t, "pdf", ExtOf("dir/file.PDF"))
	assert.Equal(t, "txt", ExtOf("a.b.txt"))
	assert.Equal(t, "", ExtOf("Makefile"))
}
