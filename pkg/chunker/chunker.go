package chunker

import (
	"math"
	"regexp"
	"strings"
)

// Chunk is one token-bounded slice of document text, tagged with the page
// range it spans.
type Chunk struct {
	Text       string
	TokenCount int
	PageStart  int
	PageEnd    int
}

// avgTokensPerWord is the heuristic ratio used to convert a word count into a
// token estimate (1 token ~ 0.75 words).
const avgTokensPerWord = 0.75

var paragraphSplit = regexp.MustCompile(`\n\n+`)

// EstimateTokens approximates the token count of text from its
// whitespace-delimited word count.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) / avgTokensPerWord))
}

// BuildChunks splits ordered page texts into chunks of at most tokenTarget
// estimated tokens. Paragraphs (blank-line separated) are accumulated
// greedily; a paragraph that alone exceeds the target still becomes a single
// chunk because paragraphs are never split. The buffer is force-flushed at
// the end of every page so PageEnd is always exact.
func BuildChunks(pages []string, tokenTarget int) []Chunk {
	var chunks []Chunk

	current := ""
	pageStart := 1

	flush := func(pageEnd int) {
		txt := strings.TrimSpace(current)
		if txt == "" {
			return
		}
		chunks = append(chunks, Chunk{
			Text:       txt,
			TokenCount: EstimateTokens(txt),
			PageStart:  pageStart,
			PageEnd:    pageEnd,
		})
		current = ""
		pageStart = pageEnd
	}

	for i, page := range pages {
		pageNo := i + 1

		for _, p := range paragraphSplit.Split(page, -1) {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}

			next := p
			if current != "" {
				next = current + "\n\n" + p
			}

			if EstimateTokens(next) > tokenTarget && current != "" {
				flush(pageNo)
				current = p
				pageStart = pageNo
			} else {
				current = next
			}
		}

		// end of page: flush whatever is buffered so chunks never span
		// an unflushed page tail
		flush(pageNo)
	}

	return chunks
}
