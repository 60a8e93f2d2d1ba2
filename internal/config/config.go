// Package config reads the application settings from a .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	CompletionGroq   = "groq"
	CompletionOpenAI = "openai"

	SynthesisElevenLabs = "elevenlabs"
	SynthesisDeepgram   = "deepgram"

	AudioMiniaudio = "miniaudio"
	AudioPortaudio = "portaudio"
)

// Config holds the choices made at startup. Credentials are not part of it,
// each client looks them up when it needs them.
type Config struct {
	CompletionProvider string
	CompletionModel    string
	OpenAIBaseURL      string

	SynthesisProvider string
	DeepgramVoice     string

	AudioBackend        string
	RecognitionLanguage string

	ConcurrentTurns bool
	DebugLogPath    string
}

// Load loads the given .env files (".env" when none are given) into the
// process environment and reads the configuration from it. Missing files are
// ignored.
func Load(paths ...string) (Config, error) {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv reads the configuration through lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	cfg := Config{
		CompletionProvider:  strings.ToLower(get("EMA_COMPLETION_PROVIDER", CompletionGroq)),
		CompletionModel:     get("EMA_COMPLETION_MODEL", ""),
		OpenAIBaseURL:       get("OPENAI_BASE_URL", ""),
		SynthesisProvider:   strings.ToLower(get("EMA_SYNTHESIS_PROVIDER", SynthesisElevenLabs)),
		DeepgramVoice:       get("DEEPGRAM_VOICE", ""),
		AudioBackend:        strings.ToLower(get("EMA_AUDIO_BACKEND", AudioMiniaudio)),
		RecognitionLanguage: get("EMA_RECOGNITION_LANGUAGE", "en-US"),
		DebugLogPath:        get("EMA_DEBUG_LOG", ""),
	}

	if raw := get("EMA_CONCURRENT_TURNS", ""); raw != "" {
		concurrent, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid EMA_CONCURRENT_TURNS %q: %w", raw, err)
		}
		cfg.ConcurrentTurns = concurrent
	}

	switch cfg.CompletionProvider {
	case CompletionGroq, CompletionOpenAI:
	default:
		return Config{}, fmt.Errorf("unknown completion provider %q", cfg.CompletionProvider)
	}
	switch cfg.SynthesisProvider {
	case SynthesisElevenLabs, SynthesisDeepgram:
	default:
		return Config{}, fmt.Errorf("unknown synthesis provider %q", cfg.SynthesisProvider)
	}
	switch cfg.AudioBackend {
	case AudioMiniaudio, AudioPortaudio:
	default:
		return Config{}, fmt.Errorf("unknown audio backend %q", cfg.AudioBackend)
	}

	return cfg, nil
}
