package orchestration

import (
	"context"

	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/conversations"
	"github.com/koscakluka/ema-voice/core/events"
	"github.com/koscakluka/ema-voice/core/speechrecognition"
)

type OrchestratorOption func(*Orchestrator)

// CompletionClient returns the assistant's reply to a serialized
// conversation.
type CompletionClient interface {
	Complete(ctx context.Context, conversation string) (string, error)
}

func WithCompletionClient(client CompletionClient) OrchestratorOption {
	return func(o *Orchestrator) { o.completion = client }
}

// SynthesisClient converts a reply to speech, starts playing it and returns
// the handle of the audio.
type SynthesisClient interface {
	Synthesize(ctx context.Context, text string) (audio.Handle, error)
}

func WithSynthesisClient(client SynthesisClient) OrchestratorOption {
	return func(o *Orchestrator) { o.synthesis = client }
}

// Recognizer is the speech recognition state machine driving voice input.
type Recognizer interface {
	Start(ctx context.Context)
	Stop()
	Close()
	SetCallbacks(callbacks speechrecognition.Callbacks)

	Supported() bool
	Listening() bool
	Caption() string
	Err() error
}

func WithRecognizer(recognizer Recognizer) OrchestratorOption {
	return func(o *Orchestrator) { o.recognizer = recognizer }
}

// WithSessionFlags replaces the in-memory flags remembering one-time hints.
func WithSessionFlags(flags conversations.SessionFlags) OrchestratorOption {
	return func(o *Orchestrator) {
		if flags != nil {
			o.flags = flags
		}
	}
}

// WithAudioLibrary reports the release of synthesized audio held by library
// as the end of its playback.
func WithAudioLibrary(library *audio.Library) OrchestratorOption {
	return func(o *Orchestrator) { o.library = library }
}

// WithConcurrentTurns lets round trips of different submissions overlap.
// Replies are then appended in the order they complete.
func WithConcurrentTurns() OrchestratorOption {
	return func(o *Orchestrator) { o.concurrentTurns = true }
}

// WithBaseContext sets the context every round trip derives from. Cancelling
// it cancels the in-flight remote calls.
func WithBaseContext(ctx context.Context) OrchestratorOption {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.baseContext = ctx
		}
	}
}

// WithEventCallback receives every event emitted by the orchestrator.
func WithEventCallback(callback func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onEvent = callback }
}

func WithTurnCallback(callback func(conversations.Turn)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onTurn = callback }
}

func WithCaptionCallback(callback func(caption string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onCaption = callback }
}

func WithIndicatorsCallback(callback func(Indicators)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onIndicators = callback }
}

func WithListeningCallback(callback func(listening bool)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onListening = callback }
}

// WithRecognitionErrorCallback receives the recognizer's error slot whenever
// it changes, nil when it is cleared.
func WithRecognitionErrorCallback(callback func(error)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onRecognitionError = callback }
}
