package conversations

import (
	"github.com/google/uuid"
	"github.com/koscakluka/ema-voice/core/audio"
)

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Label is how the speaker is named in a rendered conversation context.
func (s Speaker) Label() string {
	switch s {
	case SpeakerUser:
		return "User"
	case SpeakerAssistant:
		return "AI"
	}
	return string(s)
}

// Turn is a single committed contribution to the conversation. Turns are
// never changed after they are appended to a [Transcript].
type Turn struct {
	ID      string
	Speaker Speaker
	Text    string

	// AudioRef is set only on assistant turns whose reply was synthesized.
	AudioRef *audio.Handle
}

func NewUserTurn(text string) Turn {
	return Turn{ID: uuid.NewString(), Speaker: SpeakerUser, Text: text}
}

func NewAssistantTurn(text string, audioRef *audio.Handle) Turn {
	return Turn{ID: uuid.NewString(), Speaker: SpeakerAssistant, Text: text, AudioRef: audioRef}
}
