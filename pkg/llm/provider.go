package llm

import "context"

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature     float64
	MaxOutputTokens int
	Model           string // Override default model
	JSONMode        bool   // Ask the backend for a JSON response body
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxOutputTokens(n int) Option {
	return func(o *Options) {
		o.MaxOutputTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithJSONMode() Option {
	return func(o *Options) {
		o.JSONMode = true
	}
}

// Provider defines the contract for any LLM backend. Implementations do a
// single call; retry and response repair live in Client.
type Provider interface {
	// Generate sends a single prompt and returns the raw text response and
	// the model that served it.
	Generate(ctx context.Context, prompt string, options ...Option) (model string, text string, err error)
}
