package rag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain content"), 0o644))

	pm := NewParserManager()
	doc, err := pm.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "plain content", doc.Content)
	assert.Equal(t, "text", doc.Metadata["file_type"])
}

func TestParseMarkdownAsText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# heading"), 0o644))

	pm := NewParserManager()
	doc, err := pm.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "# heading", doc.Content)
}

func TestParseUnsupportedType(t *testing.T) {
	pm := NewParserManager()
	_, err := pm.Parse("spreadsheet.xlsx")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, "pdf", detectFileType("a/b/doc.PDF"))
	assert.Equal(t, "text", detectFileType("notes.txt"))
	assert.Equal(t, "text", detectFileType("README.md"))
	assert.Equal(t, "unknown", detectFileType("archive.zip"))
}

type stubParser struct {
	doc Document
}

func (p *stubParser) Parse(filePath string) (Document, error) { return p.doc, nil }

func TestAddParserOverrides(t *testing.T) {
	pm := NewParserManager()
	pm.AddParser("text", &stubParser{doc: Document{Content: "stubbed"}})

	doc, err := pm.Parse("anything.txt")
	require.NoError(t, err)
	assert.Equal(t, "stubbed", doc.Content)
}
