package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TextExtractor handles plain-text formats. Binary formats (pdf, docx) need
// their own Extractor implementation.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) ExtractText(fileType string, data []byte) (string, error) {
	switch strings.ToLower(fileType) {
	case "txt", "md", "text", "markdown":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("file is not valid UTF-8 text")
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file type %q", fileType)
	}
}
