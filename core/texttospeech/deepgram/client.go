package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/koscakluka/ema-voice/core/apierror"
	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/texttospeech"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultEndpoint = "https://api.deepgram.com/v1/speak"
	sampleRate      = 24000

	apiKeyVariable = "DEEPGRAM_API_KEY"
	serviceName    = "Deepgram"
)

// TextToSpeechClient synthesizes replies with Deepgram Aura voices as raw
// linear16 audio.
type TextToSpeechClient struct {
	options texttospeech.SynthesisOptions
}

func NewTextToSpeechClient(opts ...texttospeech.SynthesisOption) (*TextToSpeechClient, error) {
	options := texttospeech.NewSynthesisOptions(opts...)
	if options.Endpoint == "" {
		options.Endpoint = defaultEndpoint
	}
	if options.Voice == "" {
		options.Voice = string(defaultVoice)
	} else if !IsAvailableVoice(options.Voice) {
		return nil, fmt.Errorf("invalid voice %q", options.Voice)
	}

	return &TextToSpeechClient{options: options}, nil
}

func (c *TextToSpeechClient) Synthesize(ctx context.Context, text string) (audio.Handle, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()
	span.SetAttributes(attribute.String("request.voice", c.options.Voice))

	apiKey, ok := c.options.LookupEnv(apiKeyVariable)
	if !ok || apiKey == "" {
		err := apierror.Missing(serviceName, apiKeyVariable)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing api key")
		return audio.Handle{}, err
	}

	speakUrl, err := url.Parse(c.options.Endpoint)
	if err != nil {
		return audio.Handle{}, fmt.Errorf("invalid endpoint: %w", err)
	}
	urlValues := speakUrl.Query()
	urlValues.Set("model", c.options.Voice)
	urlValues.Set("encoding", "linear16")
	urlValues.Set("sample_rate", strconv.Itoa(sampleRate))
	urlValues.Set("container", "none")
	speakUrl.RawQuery = urlValues.Encode()

	requestBodyBytes, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return audio.Handle{}, fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, speakUrl.String(), bytes.NewReader(requestBodyBytes))
	if err != nil {
		return audio.Handle{}, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.options.HTTPClient.Do(req)
	if err != nil {
		err = fmt.Errorf("deepgram request failed: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return audio.Handle{}, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return audio.Handle{}, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed struct {
			ErrMsg string `json:"err_msg"`
		}
		_ = json.Unmarshal(body, &parsed)
		err := &apierror.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Detail:     parsed.ErrMsg,
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-success status")
		return audio.Handle{}, err
	}

	handle, err := c.options.Deliver(ctx, body, audio.EncodingInfo{
		SampleRate: sampleRate,
		Channels:   1,
		Format:     audio.EncodingLinear16,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "playback failed")
		return audio.Handle{}, err
	}
	logger.Debug("synthesized reply", "handle", handle.ID, "bytes", handle.Size)
	return handle, nil
}
