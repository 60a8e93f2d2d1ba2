package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/koscakluka/ema-voice/core/apierror"
	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/texttospeech"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultEndpoint = "https://api.elevenlabs.io/v1/text-to-speech/"
	modelID         = "eleven_multilingual_v2"

	apiKeyVariable = "ELEVENLABS_API_KEY"
	voiceVariable  = "ELEVENLABS_VOICE_ID"
	serviceName    = "ElevenLabs"
)

type Client struct {
	options texttospeech.SynthesisOptions
}

func NewClient(opts ...texttospeech.SynthesisOption) *Client {
	options := texttospeech.NewSynthesisOptions(opts...)
	if options.Endpoint == "" {
		options.Endpoint = defaultEndpoint
	}
	return &Client{options: options}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type requestBody struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize converts text to speech, starts playing it and returns the
// handle of the audio.
func (c *Client) Synthesize(ctx context.Context, text string) (audio.Handle, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	apiKey, hasKey := c.options.LookupEnv(apiKeyVariable)
	voice := c.options.Voice
	if voice == "" {
		voice, _ = c.options.LookupEnv(voiceVariable)
	}
	var missing []string
	if !hasKey || apiKey == "" {
		missing = append(missing, apiKeyVariable)
	}
	if voice == "" {
		missing = append(missing, voiceVariable)
	}
	if len(missing) > 0 {
		err := apierror.Missing(serviceName, missing...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing credentials")
		return audio.Handle{}, err
	}
	span.SetAttributes(attribute.String("request.voice", voice))

	requestBodyBytes, err := json.Marshal(requestBody{
		Text:          text,
		ModelID:       modelID,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.5},
	})
	if err != nil {
		return audio.Handle{}, fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.options.Endpoint+voice, bytes.NewReader(requestBodyBytes))
	if err != nil {
		return audio.Handle{}, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.options.HTTPClient.Do(req)
	if err != nil {
		err = fmt.Errorf("elevenlabs request failed: %w", err)
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
		err := &apierror.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Status:     strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))),
			Detail:     errorDetail(body),
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-success status")
		return audio.Handle{}, err
	}

	handle, err := c.options.Deliver(ctx, body, audio.EncodingInfo{Format: audio.EncodingMP3})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "playback failed")
		return audio.Handle{}, err
	}
	logger.Debug("synthesized reply", "handle", handle.ID, "bytes", handle.Size)
	return handle, nil
}

// errorDetail reads the detail field of an error response, which is either a
// plain string or an object carrying a message.
func errorDetail(body []byte) string {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(parsed.Detail, &detail); err == nil {
		return detail
	}

	var detailObject struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(parsed.Detail, &detailObject); err == nil {
		return detailObject.Message
	}
	return ""
}
