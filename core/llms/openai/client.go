package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/koscakluka/ema-voice/core/apierror"
	"github.com/koscakluka/ema-voice/core/llms"
	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	apiKeyVariable = "OPENAI_API_KEY"
	serviceName    = "OpenAI"
)

// Client completes conversations against any OpenAI compatible chat
// completions endpoint.
type Client struct {
	options    llms.CompletionOptions
	baseURL    string
	lookupEnv  func(string) (string, bool)
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithCompletionOptions(opts ...llms.CompletionOption) ClientOption {
	return func(c *Client) {
		for _, opt := range opts {
			opt(&c.options)
		}
	}
}

// WithBaseURL points the client at a different OpenAI compatible API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithAPIKeyLookup(lookup func(string) (string, bool)) ClientOption {
	return func(c *Client) {
		c.lookupEnv = lookup
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		options:    llms.DefaultCompletionOptions(),
		lookupEnv:  os.LookupEnv,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) Complete(ctx context.Context, conversation string) (string, error) {
	ctx, span := tracer.Start(ctx, "complete conversation")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", c.options.Model))

	apiKey, ok := c.lookupEnv(apiKeyVariable)
	if !ok || apiKey == "" {
		err := &apierror.ConfigurationError{
			Service: serviceName,
			Missing: []string{apiKeyVariable},
			Message: "OpenAI API key not set",
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing api key")
		return "", err
	}

	config := goopenai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		config.BaseURL = c.baseURL
	}
	config.HTTPClient = c.httpClient
	client := goopenai.NewClientWithConfig(config)

	messages := []goopenai.ChatCompletionMessage{}
	for _, message := range c.options.Messages(conversation) {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.options.Model,
		Messages:    messages,
		Temperature: c.options.Temperature,
		MaxTokens:   c.options.MaxTokens,
		TopP:        c.options.TopP,
		Stream:      false,
	})
	if err != nil {
		err = convertError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		logger.Debug("openai completion failed", "error", err)
		return "", err
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	return c.options.Reply(content), nil
}

func convertError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &apierror.UpstreamError{
			Service:    serviceName,
			StatusCode: apiErr.HTTPStatusCode,
			Detail:     apiErr.Message,
		}
	}

	var requestErr *goopenai.RequestError
	if errors.As(err, &requestErr) {
		detail := ""
		if requestErr.Err != nil {
			detail = requestErr.Err.Error()
		}
		return &apierror.UpstreamError{
			Service:    serviceName,
			StatusCode: requestErr.HTTPStatusCode,
			Detail:     detail,
		}
	}

	return fmt.Errorf("error sending request: %w", err)
}
