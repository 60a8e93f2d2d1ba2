package events

import "github.com/koscakluka/ema-voice/core/audio"

const (
	// KindAssistantSpeechFinal identifies a synthesized reply.
	KindAssistantSpeechFinal Kind = "assistant_speech.final"
	// KindAssistantSpeechFailed identifies an absorbed synthesis failure.
	KindAssistantSpeechFailed Kind = "assistant_speech.failed"
)

// AssistantSpeechFinal carries the handle of a synthesized reply.
type AssistantSpeechFinal struct {
	Base
	TurnID string
	Handle audio.Handle
}

// NewAssistantSpeechFinal creates a synthesized reply event.
func NewAssistantSpeechFinal(turnID string, handle audio.Handle) AssistantSpeechFinal {
	return AssistantSpeechFinal{Base: NewBase(KindAssistantSpeechFinal), TurnID: turnID, Handle: handle}
}

// AssistantSpeechFailed reports that a reply is delivered as text only.
type AssistantSpeechFailed struct {
	Base
	TurnID string
	Err    error
}

// NewAssistantSpeechFailed creates a synthesis failure event.
func NewAssistantSpeechFailed(turnID string, err error) AssistantSpeechFailed {
	return AssistantSpeechFailed{Base: NewBase(KindAssistantSpeechFailed), TurnID: turnID, Err: err}
}
