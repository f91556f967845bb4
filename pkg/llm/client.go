package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// TextResult is the outcome of a plain-text generation call.
type TextResult struct {
	Model string
	Text  string
}

// JSONResult is the outcome of a JSON generation call after recovery.
type JSONResult struct {
	Model string
	JSON  json.RawMessage
	Raw   string
}

// Client wraps a Provider with retry and JSON response repair. It is the one
// path every pipeline component uses to talk to the model.
type Client struct {
	provider Provider
	retries  int
}

func NewClient(provider Provider) *Client {
	return &Client{provider: provider, retries: DefaultRetries}
}

// GenerateText runs a free-form generation call with retry.
func (c *Client) GenerateText(ctx context.Context, prompt string, options ...Option) (*TextResult, error) {
	var res TextResult

	err := WithRetry(ctx, c.retries, func() error {
		model, text, err := c.provider.Generate(ctx, prompt, options...)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return ErrEmptyResponse
		}
		res = TextResult{Model: model, Text: strings.TrimSpace(text)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GenerateJSON runs a generation call in JSON mode and recovers the response
// through an ordered ladder: direct parse of the largest bracket-delimited
// substring, a jsonrepair pass, then one extra model call that rewrites the
// text as strict JSON followed by the same two steps again. Exhausting every
// tier raises a ParseError carrying a diagnostic tail.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, options ...Option) (*JSONResult, error) {
	var res JSONResult

	err := WithRetry(ctx, c.retries, func() error {
		opts := append([]Option{WithJSONMode(), WithTemperature(0)}, options...)

		model, raw, err := c.provider.Generate(ctx, prompt, opts...)
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return ErrEmptyResponse
		}

		candidate := extractCandidate(trimmed)

		if parsed, repaired, perr := recoverJSON(candidate); perr == nil {
			res = JSONResult{Model: model, JSON: parsed, Raw: repaired}
			return nil
		}

		// last tier: one extra call asking the model to rewrite the tail
		// as strict JSON, then run the same recovery over that response
		repairedRaw, rerr := c.repairCall(ctx, model, candidate)
		if rerr != nil {
			return rerr
		}

		repairedCandidate := extractCandidate(repairedRaw)
		parsed, repaired, perr := recoverJSON(repairedCandidate)
		if perr != nil {
			return &ParseError{Tail: tail(repairedCandidate, 400), Err: perr}
		}

		res = JSONResult{Model: model, JSON: parsed, Raw: repaired}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// recoverJSON tries the non-LLM recovery strategies in order and stops at the
// first one that yields valid JSON.
func recoverJSON(candidate string) (json.RawMessage, string, error) {
	strategies := []func(string) (string, error){
		func(s string) (string, error) { return s, nil },
		jsonrepair.JSONRepair,
	}

	var lastErr error
	for _, strategy := range strategies {
		fixed, err := strategy(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		if json.Valid([]byte(fixed)) {
			return json.RawMessage(fixed), fixed, nil
		}
		lastErr = fmt.Errorf("invalid json after recovery")
	}
	return nil, "", lastErr
}

func (c *Client) repairCall(ctx context.Context, model, candidate string) (string, error) {
	const maxChars = 12000
	snippet := candidate
	if len(snippet) > maxChars {
		snippet = snippet[len(snippet)-maxChars:]
	}

	prompt := strings.TrimSpace(fmt.Sprintf(`Kamu adalah parser. Perbaiki teks berikut menjadi JSON VALID saja.
Aturan:
- Output HANYA JSON valid (tanpa markdown, tanpa penjelasan).
- Jangan mengubah makna konten, hanya perbaiki format JSON.
- Jika ada kutip ganda di dalam string, WAJIB di-escape.
Teks:
%s`, snippet))

	_, raw, err := c.provider.Generate(ctx, prompt,
		WithJSONMode(), WithTemperature(0), WithMaxOutputTokens(2200), WithModel(model))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyRepair
	}
	return strings.TrimSpace(raw), nil
}

// extractCandidate picks the largest bracket-delimited substring, favoring an
// object over an array, falling back to the full text.
func extractCandidate(s string) string {
	if first, last := strings.Index(s, "{"), strings.LastIndex(s, "}"); first != -1 && last > first {
		return s[first : last+1]
	}
	if first, last := strings.Index(s, "["), strings.LastIndex(s, "]"); first != -1 && last > first {
		return s[first : last+1]
	}
	return s
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
