package main

import (
	"fmt"

	orchestration "github.com/koscakluka/ema-voice/core"
	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/audio/miniaudio"
	"github.com/koscakluka/ema-voice/core/audio/portaudio"
	"github.com/koscakluka/ema-voice/core/speechrecognition"
	"github.com/koscakluka/ema-voice/core/speechrecognition/deepgram"
	"github.com/koscakluka/ema-voice/core/texttospeech"
	deepgramtts "github.com/koscakluka/ema-voice/core/texttospeech/deepgram"
	"github.com/koscakluka/ema-voice/core/texttospeech/elevenlabs"
	"github.com/koscakluka/ema-voice/internal/config"
)

const portaudioBufferSize = 1024

// audioDevice captures the microphone and plays replies.
type audioDevice interface {
	deepgram.AudioSource
	audio.Player
	Close()
}

// openAudioDevice returns nil and the reason when no device could be opened,
// which leaves the session without playback.
func openAudioDevice(backend string) (audioDevice, error) {
	var (
		device audioDevice
		err    error
	)
	switch backend {
	case config.AudioPortaudio:
		var client *portaudio.Client
		if client, err = portaudio.NewClient(portaudioBufferSize); err == nil {
			device = client
		}
	default:
		var client *miniaudio.Client
		if client, err = miniaudio.NewClient(); err == nil {
			device = client
		}
	}
	if err != nil {
		logger.Warn("audio device unavailable", "backend", backend, "error", err)
		return nil, err
	}
	return device, nil
}

// recognitionSource picks the microphone to transcribe from. A device that
// refused access still yields a source so the refusal reaches the user as a
// permission error. Any other failure leaves voice input unsupported.
func recognitionSource(device audioDevice, deviceErr error) deepgram.AudioSource {
	switch {
	case device != nil:
		return device
	case audio.IsPermissionError(deviceErr):
		return audio.DeniedSource{Err: deviceErr}
	}
	return nil
}

func newRecognitionCapability(cfg config.Config, source deepgram.AudioSource) speechrecognition.Capability {
	return deepgram.NewCapability(source, deepgram.WithLanguage(cfg.RecognitionLanguage))
}

func newSynthesisClient(cfg config.Config, library *audio.Library, device audioDevice) (orchestration.SynthesisClient, error) {
	options := []texttospeech.SynthesisOption{texttospeech.WithLibrary(library)}
	if device != nil {
		options = append(options, texttospeech.WithPlayer(device))
	}

	switch cfg.SynthesisProvider {
	case config.SynthesisDeepgram:
		if cfg.DeepgramVoice != "" {
			options = append(options, texttospeech.WithVoice(cfg.DeepgramVoice))
		}
		client, err := deepgramtts.NewTextToSpeechClient(options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create deepgram synthesis client: %w", err)
		}
		return client, nil
	default:
		return elevenlabs.NewClient(options...), nil
	}
}
