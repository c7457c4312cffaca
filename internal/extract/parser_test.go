package extract

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func newTestParser() *Parser {
	return NewParser([]string{"pdf", "txt", "doc", "docx"})
}

func TestExtractText_PlainText(t *testing.T) {
	path := writeFile(t, "notes.txt", "Contract between A and B.\nCost: 500 EUR.")

	text, err := newTestParser().ExtractText(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Contract between A and B")
	assert.Contains(t, text, "500 EUR")
}

func TestExtractText_MissingFile(t *testing.T) {
	_, err := newTestParser().ExtractText(filepath.Join(t.TempDir(), "ghost.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "ghost.txt")
}

func TestExtractText_DisallowedExtension(t *testing.T) {
	path := writeFile(t, "script.sh", "#!/bin/sh")

	_, err := newTestParser().ExtractText(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)
}

func TestExtractText_ExtensionSpoofing(t *testing.T) {
	// A text file renamed to .pdf must be rejected by content sniffing.
	path := writeFile(t, "fake.pdf", "this is just text pretending to be a pdf")

	_, err := newTestParser().ExtractText(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "does not contain PDF data")
}

func TestExtractText_WordDocumentsUnsupported(t *testing.T) {
	for _, name := range []string{"report.doc", "report.docx"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, "PK\x03\x04 fake office container")

			_, err := newTestParser().ExtractText(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestExtractText_EmptyTextFile(t *testing.T) {
	path := writeFile(t, "empty.txt", "")

	text, err := newTestParser().ExtractText(path)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15-03-2026", "2026-03-15"},
		{"15/03/2026", "2026-03-15"},
		{"1/3/2026", "2026-03-01"},
		{"2026-03-15", "2026-03-15"},
		{"", ""},
		{"  15-03-2026  ", "2026-03-15"},
		{"March 15, 2026", "March 15, 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.in))
		})
	}
}

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONContent(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("", 5))
}
