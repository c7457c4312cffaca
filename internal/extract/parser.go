// Package extract turns local documents into structured contract and
// invoice records: text extraction from the file, then field extraction
// with an LLM.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedType marks a file type the parser cannot read.
	// Word documents fall here: they are listable but not extractable.
	ErrUnsupportedType = errors.New("extract: unsupported file type")

	// ErrExtensionNotAllowed marks a file outside the extension allow-list.
	ErrExtensionNotAllowed = errors.New("extract: extension not allowed")

	// ErrMalformed marks a file whose content does not match its
	// extension or cannot be decoded.
	ErrMalformed = errors.New("extract: malformed file")
)

// sniffLen is how many leading bytes are read for content-type detection.
const sniffLen = 262

// Parser extracts plain text from local documents. Stateless apart from
// the configured extension allow-list.
type Parser struct {
	allowedExts map[string]bool
}

// NewParser builds a parser with the given extension allow-list
// (extensions without leading dot, case-insensitive).
func NewParser(extensions []string) *Parser {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	return &Parser{allowedExts: exts}
}

// ExtractText returns the document's plain text. It fails fast on a
// missing file, a disallowed extension, or content that does not match
// the extension (extension spoofing), before any heavier parsing.
func (p *Parser) ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("extract: %s: %w", path, err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !p.allowedExts[ext] {
		return "", fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
	}

	head, err := readHead(path)
	if err != nil {
		return "", fmt.Errorf("extract: reading %s: %w", path, err)
	}

	kind, err := filetype.Match(head)
	if err != nil {
		return "", fmt.Errorf("extract: sniffing %s: %w", path, err)
	}

	switch ext {
	case "pdf":
		if kind.Extension != "pdf" {
			return "", fmt.Errorf("%w: %s does not contain PDF data", ErrMalformed, path)
		}

		return extractPDF(path)
	case "txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("extract: reading %s: %w", path, err)
		}

		return string(data), nil
	case "doc", "docx":
		return "", fmt.Errorf("%w: Word documents cannot be extracted, convert to PDF or text first", ErrUnsupportedType)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)

	n, err := f.Read(head)
	if err != nil && n == 0 {
		return nil, err
	}

	return head[:n], nil
}

// extractPDF concatenates the plain text of all pages.
func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	defer f.Close()

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	return buf.String(), nil
}
