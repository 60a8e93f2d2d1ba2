package events

import "github.com/koscakluka/ema-voice/core/audio"

const (
	// KindAssistantPlaybackEnded identifies the end of a reply playback, after
	// which the audio behind the handle is released.
	KindAssistantPlaybackEnded Kind = "assistant_playback.ended"
)

// AssistantPlaybackEnded marks the release of a played reply.
type AssistantPlaybackEnded struct {
	Base
	Handle audio.Handle
}

// NewAssistantPlaybackEnded creates a playback ended event.
func NewAssistantPlaybackEnded(handle audio.Handle) AssistantPlaybackEnded {
	return AssistantPlaybackEnded{Base: NewBase(KindAssistantPlaybackEnded), Handle: handle}
}
