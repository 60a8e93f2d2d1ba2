package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/koscakluka/ema-voice/core/apierror"
	"github.com/koscakluka/ema-voice/core/llms"
)

func withKey(key string) ClientOption {
	return WithAPIKeyLookup(func(name string) (string, bool) {
		if name == apiKeyVariable && key != "" {
			return key, true
		}
		return "", false
	})
}

func TestCompleteUsesConfiguredModelAndPersona(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if body.Model != "gpt-4o-mini" {
			t.Errorf("expected configured model, got %q", body.Model)
		}
		if len(body.Messages) != 2 || body.Messages[0].Content != llms.DefaultPersona {
			t.Errorf("unexpected messages %+v", body.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" 4 "},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL+"/v1"),
		withKey("test-key"),
		WithCompletionOptions(llms.WithModel("gpt-4o-mini")),
	)
	reply, err := client.Complete(context.Background(), "User: What is 2+2?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply != "4" {
		t.Fatalf("expected reply %q, got %q", "4", reply)
	}
}

func TestCompleteWithoutKeyReturnsConfigurationError(t *testing.T) {
	_, err := NewClient(withKey("")).Complete(context.Background(), "User: hi")
	if !apierror.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCompleteConvertsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	_, err := NewClient(WithBaseURL(server.URL+"/v1"), withKey("bad")).Complete(context.Background(), "User: hi")

	var upstreamErr *apierror.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if upstreamErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", upstreamErr.StatusCode)
	}
	if upstreamErr.Detail != "invalid api key" {
		t.Fatalf("expected detail %q, got %q", "invalid api key", upstreamErr.Detail)
	}
}
