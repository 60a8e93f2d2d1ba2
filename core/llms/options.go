package llms

import "strings"

const (
	DefaultPersona     = "You are a helpful, concise AI assistant. Answer as helpfully as possible."
	DefaultModel       = "llama3-70b-8192"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 400
	DefaultTopP        = 1

	// FallbackReply is returned when the service answers without any usable
	// content.
	FallbackReply = "Sorry, I don't know."
)

// CompletionOptions holds the fixed request parameters shared by completion
// clients.
type CompletionOptions struct {
	Persona     string
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32
	Fallback    string
}

type CompletionOption func(*CompletionOptions)

func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{
		Persona:     DefaultPersona,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		TopP:        DefaultTopP,
		Fallback:    FallbackReply,
	}
}

// NewCompletionOptions applies opts over the defaults.
func NewCompletionOptions(opts ...CompletionOption) CompletionOptions {
	options := DefaultCompletionOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithPersona replaces the system prompt.
func WithPersona(persona string) CompletionOption {
	return func(o *CompletionOptions) {
		o.Persona = persona
	}
}

// WithModel sets the model id. Empty values keep the default.
func WithModel(model string) CompletionOption {
	return func(o *CompletionOptions) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithTemperature(temperature float32) CompletionOption {
	return func(o *CompletionOptions) {
		o.Temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) CompletionOption {
	return func(o *CompletionOptions) {
		o.MaxTokens = maxTokens
	}
}

func WithTopP(topP float32) CompletionOption {
	return func(o *CompletionOptions) {
		o.TopP = topP
	}
}

func WithFallbackReply(fallback string) CompletionOption {
	return func(o *CompletionOptions) {
		o.Fallback = fallback
	}
}

// Reply trims content and substitutes the fallback reply when nothing is
// left.
func (o CompletionOptions) Reply(content string) string {
	if reply := strings.TrimSpace(content); reply != "" {
		return reply
	}
	return o.Fallback
}
