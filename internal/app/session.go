package app

import (
	"context"

	orchestration "github.com/koscakluka/ema-voice/core"
	"github.com/koscakluka/ema-voice/core/conversations"
)

// Session is the part of the orchestrator the UI drives.
type Session interface {
	SubmitAsync(ctx context.Context, text string) (<-chan struct{}, error)
	ClearTranscript()
	Transcript() []conversations.Turn
	Indicators() orchestration.Indicators

	ToggleListening(ctx context.Context)
	Listening() bool
	RecognitionSupported() bool
	RecognitionErr() error
	Caption() string

	ConsumeVoiceGuide() bool
	ShowVoiceGuide()
}

var _ Session = (*orchestration.Orchestrator)(nil)
