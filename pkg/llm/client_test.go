package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider replays a scripted sequence of responses/errors.
type fakeProvider struct {
	responses []fakeResponse
	calls     int
	prompts   []string
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, _ ...Option) (string, string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.calls >= len(f.responses) {
		return "fake-model", "", errors.New("no scripted response left")
	}
	r := f.responses[f.calls]
	f.calls++
	return "fake-model", r.text, r.err
}

func TestGenerateJSONDirectParse(t *testing.T) {
	p := &fakeProvider{responses: []fakeResponse{
		{text: `{"results": [1, 2]}`},
	}}

	res, err := NewClient(p).GenerateJSON(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[1,2]}`, string(res.JSON))
	assert.Equal(t, 1, p.calls)
}

func TestGenerateJSONStripsSurroundingProse(t *testing.T) {
	p := &fakeProvider{responses: []fakeResponse{
		{text: "Here you go:\n{\"ok\": true}\nHope that helps!"},
	}}

	res, err := NewClient(p).GenerateJSON(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(res.JSON))
}

func TestGenerateJSONRepairTier(t *testing.T) {
	// trailing comma: invalid for encoding/json, fixable by jsonrepair
	p := &fakeProvider{responses: []fakeResponse{
		{text: `{"items": [1, 2,]}`},
	}}

	res, err := NewClient(p).GenerateJSON(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[1,2]}`, string(res.JSON))
	assert.Equal(t, 1, p.calls, "repair tier must not cost an extra model call")
}

func TestGenerateJSONLLMRepairTier(t *testing.T) {
	p := &fakeProvider{responses: []fakeResponse{
		{text: `{"broken": "unterminated`},
		{text: `{"broken": "fixed"}`},
	}}

	res, err := NewClient(p).GenerateJSON(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"broken":"fixed"}`, string(res.JSON))
	assert.Equal(t, 2, p.calls)
	assert.Contains(t, p.prompts[1], "JSON VALID", "second call must be the repair prompt")
}

func TestGenerateTextRetriesTransientErrors(t *testing.T) {
	p := &fakeProvider{responses: []fakeResponse{
		{err: &APIError{StatusCode: 503, Status: "UNAVAILABLE", Message: "down"}},
		{text: "recovered"},
	}}

	res, err := NewClient(p).GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "recovered", res.Text)
	assert.Equal(t, 2, p.calls)
}

func TestGenerateTextDoesNotRetryFatalErrors(t *testing.T) {
	p := &fakeProvider{responses: []fakeResponse{
		{err: &APIError{StatusCode: 400, Status: "INVALID_ARGUMENT", Message: "bad prompt"}},
	}}

	_, err := NewClient(p).GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&APIError{StatusCode: 429}))
	assert.True(t, IsRetryable(&APIError{Status: "RESOURCE_EXHAUSTED"}))
	assert.True(t, IsRetryable(ErrEmptyResponse))
	assert.True(t, IsRetryable(&ParseError{Tail: "x", Err: errors.New("boom")}))
	assert.True(t, IsRetryable(errors.New("read tcp: connection reset by peer")))

	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("record not found")))
	assert.False(t, IsRetryable(&APIError{StatusCode: 400, Status: "INVALID_ARGUMENT"}))
}

func TestRetryAfterHint(t *testing.T) {
	d, ok := RetryAfterHint(&APIError{StatusCode: 429, RetryAfter: 3 * time.Second})
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	_, ok = RetryAfterHint(errors.New("plain"))
	assert.False(t, ok)
}
