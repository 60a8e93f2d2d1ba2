package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/koscakluka/ema-voice/core/apierror"
	"github.com/koscakluka/ema-voice/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	url = "https://api.groq.com/openai/v1/chat/completions"

	apiKeyVariable = "GROQ_API_KEY"
	serviceName    = "Groq"
)

// Client sends a serialized conversation to the Groq chat completions API
// and returns the reply. It never retries.
type Client struct {
	options    llms.CompletionOptions
	endpoint   string
	lookupEnv  func(string) (string, bool)
	httpClient *http.Client

	requests metric.Int64Counter
}

type ClientOption func(*Client)

func WithCompletionOptions(opts ...llms.CompletionOption) ClientOption {
	return func(c *Client) {
		for _, opt := range opts {
			opt(&c.options)
		}
	}
}

func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithAPIKeyLookup replaces the lookup of GROQ_API_KEY in the process
// environment.
func WithAPIKeyLookup(lookup func(string) (string, bool)) ClientOption {
	return func(c *Client) {
		c.lookupEnv = lookup
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		options:   llms.DefaultCompletionOptions(),
		endpoint:  url,
		lookupEnv: os.LookupEnv,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}
	for _, opt := range opts {
		opt(client)
	}

	requests, err := meter.Int64Counter("groq.completion.requests")
	if err != nil {
		logger.Warn("failed to create request counter", "error", err)
	}
	client.requests = requests

	return client
}

// Complete returns the trimmed reply to conversation, or the fallback reply
// when the answer has no content.
func (c *Client) Complete(ctx context.Context, conversation string) (string, error) {
	ctx, span := tracer.Start(ctx, "complete conversation")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", c.options.Model))

	apiKey, ok := c.lookupEnv(apiKeyVariable)
	if !ok || apiKey == "" {
		err := &apierror.ConfigurationError{
			Service: serviceName,
			Missing: []string{apiKeyVariable},
			Message: "GROQ API key not set",
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing api key")
		return "", err
	}

	reqBody := requestBody{
		Model:       c.options.Model,
		Messages:    c.options.Messages(conversation),
		Temperature: c.options.Temperature,
		MaxTokens:   c.options.MaxTokens,
		TopP:        c.options.TopP,
		Stream:      false,
	}
	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	if c.requests != nil {
		c.requests.Add(ctx, 1)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response body: %w", err)
		span.RecordError(err)
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &apierror.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Detail:     errorDetail(body),
		}
		span.SetAttributes(attribute.String("response.error", string(body)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-success status")
		return "", err
	}

	var parsed responseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		err = fmt.Errorf("error unmarshalling JSON: %w", err)
		span.RecordError(err)
		return "", err
	}

	content := ""
	if len(parsed.Choices) > 0 {
		content = parsed.Choices[0].Message.Content
	}
	return c.options.Reply(content), nil
}

func errorDetail(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}
