package texttospeech

import (
	"net/http"
	"os"

	"github.com/koscakluka/ema-voice/core/audio"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SynthesisOptions are shared by the speech synthesis clients.
type SynthesisOptions struct {
	// Library keeps the synthesized audio until its playback ends.
	Library *audio.Library
	// Player starts the playback of every synthesized reply.
	Player audio.Player

	// Voice overrides the voice configured in the environment.
	Voice    string
	Endpoint string

	LookupEnv  func(string) (string, bool)
	HTTPClient *http.Client
}

type SynthesisOption func(*SynthesisOptions)

func DefaultSynthesisOptions() SynthesisOptions {
	return SynthesisOptions{
		Library:    audio.NewLibrary(),
		LookupEnv:  os.LookupEnv,
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func NewSynthesisOptions(opts ...SynthesisOption) SynthesisOptions {
	options := DefaultSynthesisOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithLibrary(library *audio.Library) SynthesisOption {
	return func(o *SynthesisOptions) {
		if library != nil {
			o.Library = library
		}
	}
}

func WithPlayer(player audio.Player) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Player = player
	}
}

func WithVoice(voice string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Voice = voice
	}
}

func WithEndpoint(endpoint string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Endpoint = endpoint
	}
}

// WithLookupEnv replaces the credential lookup in the process environment.
func WithLookupEnv(lookup func(string) (string, bool)) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.LookupEnv = lookup
	}
}

func WithHTTPClient(client *http.Client) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.HTTPClient = client
	}
}
