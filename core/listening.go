package orchestration

import (
	"context"
	"strings"

	"github.com/koscakluka/ema-voice/core/conversations"
	"github.com/koscakluka/ema-voice/core/events"
	"github.com/koscakluka/ema-voice/core/speechrecognition"
)

func (o *Orchestrator) recognitionCallbacks() speechrecognition.Callbacks {
	return speechrecognition.Callbacks{
		OnCaption: func(caption string) {
			o.emit(events.NewUserTranscriptInterimUpdated(caption))
		},
		OnFinalize: func(text string) {
			o.emit(events.NewUserTranscriptFinal(text))
			if strings.TrimSpace(text) == "" {
				return
			}
			if _, err := o.SubmitAsync(o.baseContext, text); err != nil {
				logger.Info("dropped recognized utterance", "error", err)
			}
		},
		OnListeningChanged: func(listening bool) {
			o.emit(events.NewUserListeningChanged(listening))
		},
		OnError: func(err error) {
			o.emit(events.NewUserInputFailed(err))
		},
	}
}

// StartListening starts a recognition session. It is a no-op while already
// listening or without a recognizer; failures land in RecognitionErr.
func (o *Orchestrator) StartListening(ctx context.Context) {
	if o.recognizer == nil || o.isClosed() {
		return
	}
	o.recognizer.Start(ctx)
}

// StopListening asks the recognizer to end the session. The utterance is
// submitted once the recognizer finalizes it.
func (o *Orchestrator) StopListening() {
	if o.recognizer == nil {
		return
	}
	o.recognizer.Stop()
}

func (o *Orchestrator) ToggleListening(ctx context.Context) {
	if o.Listening() {
		o.StopListening()
		return
	}
	o.StartListening(ctx)
}

func (o *Orchestrator) Listening() bool {
	return o.recognizer != nil && o.recognizer.Listening()
}

func (o *Orchestrator) RecognitionSupported() bool {
	return o.recognizer != nil && o.recognizer.Supported()
}

// RecognitionErr returns the recognizer's error slot.
func (o *Orchestrator) RecognitionErr() error {
	if o.recognizer == nil {
		return &speechrecognition.CapabilityUnsupportedError{}
	}
	return o.recognizer.Err()
}

func (o *Orchestrator) Caption() string {
	if o.recognizer == nil {
		return ""
	}
	return o.recognizer.Caption()
}

// VoiceGuideAvailable reports whether the voice guide has not been shown yet
// in this session.
func (o *Orchestrator) VoiceGuideAvailable() bool {
	return o.RecognitionSupported() && !o.flags.Seen(conversations.VoiceGuideFlag)
}

// ConsumeVoiceGuide reports true exactly once per session flags, when voice
// input is supported.
func (o *Orchestrator) ConsumeVoiceGuide() bool {
	if !o.VoiceGuideAvailable() {
		return false
	}
	o.flags.MarkSeen(conversations.VoiceGuideFlag)
	return true
}

// ShowVoiceGuide makes the voice guide available again.
func (o *Orchestrator) ShowVoiceGuide() {
	o.flags.Forget(conversations.VoiceGuideFlag)
}
