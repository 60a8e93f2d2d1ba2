package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/koscakluka/ema-voice/core/apierror"
	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/texttospeech"
)

type playerStub struct {
	plays   atomic.Int32
	onEnded func()
}

func (p *playerStub) Play(_ context.Context, _ []byte, info audio.EncodingInfo, onEnded func()) error {
	p.plays.Add(1)
	p.onEnded = onEnded
	return nil
}

func env(values map[string]string) texttospeech.SynthesisOption {
	return texttospeech.WithLookupEnv(func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	})
}

var credentials = map[string]string{apiKeyVariable: "test-key", voiceVariable: "voice-1"}

func TestSynthesizeStartsPlaybackAndReleasesWhenEnded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voice-1" {
			t.Errorf("expected voice in path, got %q", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		var body requestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if body.Text != "4" || body.ModelID != modelID || body.VoiceSettings.Stability != 0.5 || body.VoiceSettings.SimilarityBoost != 0.5 {
			t.Errorf("unexpected request %+v", body)
		}
		_, _ = w.Write([]byte{0xff, 0xfb, 0x90, 0x00})
	}))
	defer server.Close()

	library := audio.NewLibrary()
	player := &playerStub{}
	client := NewClient(
		texttospeech.WithEndpoint(server.URL+"/"),
		texttospeech.WithLibrary(library),
		texttospeech.WithPlayer(player),
		env(credentials),
	)

	handle, err := client.Synthesize(context.Background(), "4")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if handle.ID == "" || handle.Format != audio.EncodingMP3 {
		t.Fatalf("expected mp3 handle, got %+v", handle)
	}
	if got := player.plays.Load(); got != 1 {
		t.Fatalf("expected playback to start once, got %d", got)
	}
	if library.IsReleased(handle) {
		t.Fatalf("expected audio to be held while playing")
	}

	player.onEnded()
	if !library.IsReleased(handle) {
		t.Fatalf("expected audio to be released after playback ended")
	}
}

func TestSynthesizeRequiresKeyAndVoice(t *testing.T) {
	testCases := []struct {
		name    string
		values  map[string]string
		missing int
	}{
		{name: "nothing set", values: nil, missing: 2},
		{name: "voice missing", values: map[string]string{apiKeyVariable: "key"}, missing: 1},
		{name: "key missing", values: map[string]string{voiceVariable: "voice"}, missing: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := atomic.Int32{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
			}))
			defer server.Close()

			_, err := NewClient(texttospeech.WithEndpoint(server.URL+"/"), env(tc.values)).Synthesize(context.Background(), "hi")

			var configErr *apierror.ConfigurationError
			if !errors.As(err, &configErr) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if len(configErr.Missing) != tc.missing {
				t.Fatalf("expected %d missing variables, got %v", tc.missing, configErr.Missing)
			}
			if got := calls.Load(); got != 0 {
				t.Fatalf("expected no network call, got %d", got)
			}
		})
	}
}

func TestSynthesizeExtractsErrorDetail(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{name: "string detail", status: http.StatusUnauthorized, body: `{"detail":"Invalid API key"}`, expected: "ElevenLabs API error (401): Invalid API key"},
		{name: "object detail", status: http.StatusBadRequest, body: `{"detail":{"status":"voice_not_found","message":"Voice not found"}}`, expected: "ElevenLabs API error (400): Voice not found"},
		{name: "status text fallback", status: http.StatusInternalServerError, body: `oops`, expected: "ElevenLabs API error (500): Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer server.Close()

			library := audio.NewLibrary()
			_, err := NewClient(texttospeech.WithEndpoint(server.URL+"/"), texttospeech.WithLibrary(library), env(credentials)).
				Synthesize(context.Background(), "hi")

			if !apierror.IsUpstream(err) {
				t.Fatalf("expected upstream error, got %v", err)
			}
			if err.Error() != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, err.Error())
			}
			if library.Len() != 0 {
				t.Fatalf("expected no audio to be held after a failure")
			}
		})
	}
}

func TestSynthesizeWithoutPlayerFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xff, 0xfb, 0x90, 0x00})
	}))
	defer server.Close()

	library := audio.NewLibrary()
	client := NewClient(
		texttospeech.WithEndpoint(server.URL+"/"),
		texttospeech.WithLibrary(library),
		env(credentials),
	)

	handle, err := client.Synthesize(context.Background(), "4")
	if err == nil {
		t.Fatalf("expected synthesis without playback to fail, got handle %+v", handle)
	}
	if handle.ID != "" {
		t.Fatalf("expected no handle, got %+v", handle)
	}
	if got := library.Len(); got != 0 {
		t.Fatalf("expected audio to be released, got %d held", got)
	}
}
