package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is what a parse produces: ordered page texts plus a rough quality
// score (0-100) describing how usable the extracted text is.
type Result struct {
	Pages        []string
	QualityScore int
}

// Extractor turns raw file bytes into text. PDF/DOCX extraction backends
// plug in here; their internals are outside this package's concern.
type Extractor interface {
	ExtractText(fileType string, data []byte) (string, error)
}

// Parser owns text cleanup and quality scoring around a raw Extractor.
type Parser struct {
	extractor Extractor
}

func New(extractor Extractor) *Parser {
	return &Parser{extractor: extractor}
}

var (
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	newlineRunRe    = regexp.MustCompile(`\n{3,}`)
	spaceRunRe      = regexp.MustCompile(`[ \t]{2,}`)
	letterRe        = regexp.MustCompile(`[A-Za-zÀ-ÿ\x{0100}-\x{024F}\x{1E00}-\x{1EFF}\x{0400}-\x{04FF}]`)
)

// CleanText normalizes extracted text: CRs dropped, trailing spaces stripped,
// newline runs collapsed to paragraph breaks, space runs collapsed.
func CleanText(input string) string {
	s := strings.ReplaceAll(input, "\r", "")
	s = trailingSpaceRe.ReplaceAllString(s, "\n")
	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// EstimateQualityScore grades cleaned text by length and letter ratio. Short
// or symbol-heavy extractions (scanned PDFs, broken encodings) score low.
func EstimateQualityScore(cleaned string) int {
	length := len(cleaned)
	if length < 200 {
		return 10
	}

	letters := len(letterRe.FindAllString(cleaned, -1))
	ratio := float64(letters) / float64(max(1, length))

	switch {
	case length > 2000 && ratio > 0.5:
		return 90
	case length > 800 && ratio > 0.35:
		return 75
	case length > 400 && ratio > 0.25:
		return 55
	default:
		return 30
	}
}

// ParseBuffer extracts, cleans and scores the given file. Extraction is a
// single text blob for now, returned as one page.
func (p *Parser) ParseBuffer(fileType string, data []byte) (*Result, error) {
	raw, err := p.extractor.ExtractText(fileType, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s text: %w", fileType, err)
	}

	cleaned := CleanText(raw)

	return &Result{
		Pages:        []string{cleaned},
		QualityScore: EstimateQualityScore(cleaned),
	}, nil
}
