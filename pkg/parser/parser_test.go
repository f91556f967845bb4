package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	in := "judul   \r\nbaris satu  \n\n\n\n\nbaris  dua\t\tdengan   spasi"
	out := CleanText(in)

	assert.NotContains(t, out, "\r")
	assert.NotContains(t, out, "\n\n\n")
	assert.NotContains(t, out, "  ")
	assert.Equal(t, "judul\nbaris satu\n\nbaris dua dengan spasi", out)
}

func TestEstimateQualityScore(t *testing.T) {
	assert.Equal(t, 10, EstimateQualityScore("pendek"))

	good := strings.Repeat("Materi pembelajaran tentang fotosintesis pada tumbuhan hijau. ", 40)
	assert.Equal(t, 90, EstimateQualityScore(good))

	noisy := strings.Repeat("#### 12 $$ 90 __ // 44 !! 78 %% 13 ** 55 ", 60)
	assert.Equal(t, 30, EstimateQualityScore(noisy))
}

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(string, []byte) (string, error) {
	return s.text, s.err
}

func TestParseBuffer(t *testing.T) {
	raw := strings.Repeat("Bab satu membahas dasar termodinamika dan hukum kekekalan energi. ", 40)
	p := New(stubExtractor{text: raw + "\r\n\r\n\r\n"})

	res, err := p.ParseBuffer("pdf", []byte("%PDF"))
	require.NoError(t, err)

	require.Len(t, res.Pages, 1)
	assert.NotContains(t, res.Pages[0], "\r")
	assert.Equal(t, 90, res.QualityScore)
}

func TestParseBufferPropagatesExtractorError(t *testing.T) {
	p := New(stubExtractor{err: assert.AnError})

	_, err := p.ParseBuffer("docx", nil)
	assert.ErrorIs(t, err, assert.AnError)
}
