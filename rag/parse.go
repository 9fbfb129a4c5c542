package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is the parsed content of one source file.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Parser extracts text from a file on disk.
type Parser interface {
	Parse(filePath string) (Document, error)
}

// ParserManager routes files to a parser by detected file type.
type ParserManager struct {
	detect  func(string) string
	parsers map[string]Parser
}

// NewParserManager returns a manager with text and PDF parsers registered.
func NewParserManager() *ParserManager {
	return &ParserManager{
		detect: detectFileType,
		parsers: map[string]Parser{
			"text": &TextParser{},
			"pdf":  &PDFParser{},
		},
	}
}

// AddParser registers a parser for a file type, replacing any existing one.
func (pm *ParserManager) AddParser(fileType string, parser Parser) {
	pm.parsers[fileType] = parser
}

func (pm *ParserManager) Parse(filePath string) (Document, error) {
	fileType := pm.detect(filePath)
	parser, ok := pm.parsers[fileType]
	if !ok {
		return Document{}, Errorf(KindValidation, "rag.Parse", "no parser for file type %q (%s)", fileType, filePath)
	}
	doc, err := parser.Parse(filePath)
	if err != nil {
		GlobalLogger.Error("failed to parse document", "path", filePath, "error", err)
		return Document{}, err
	}
	GlobalLogger.Debug("parsed document", "path", filePath, "type", fileType, "bytes", len(doc.Content))
	return doc, nil
}

func detectFileType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return "pdf"
	case ".txt", ".md":
		return "text"
	default:
		return "unknown"
	}
}

// TextParser reads plain-text files as-is.
type TextParser struct{}

func (p *TextParser) Parse(filePath string) (Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}
	return Document{
		Content:  string(content),
		Metadata: map[string]string{"file_type": "text", "file_path": filePath},
	}, nil
}

// PDFParser extracts plain text from PDF files page by page.
type PDFParser struct{}

func (p *PDFParser) Parse(filePath string) (Document, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Document{}, fmt.Errorf("failed to stat file: %w", err)
	}
	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return Document{}, fmt.Errorf("failed to open PDF: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return Document{}, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		text.WriteString(content)
		text.WriteString("\n\n")
	}
	return Document{
		Content:  text.String(),
		Metadata: map[string]string{"file_type": "pdf", "file_path": filePath},
	}, nil
}
