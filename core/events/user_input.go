package events

const (
	// KindUserListeningChanged identifies recognition session state changes.
	KindUserListeningChanged Kind = "user_input.listening_changed"
	// KindUserTranscriptInterimUpdated identifies live caption updates.
	KindUserTranscriptInterimUpdated Kind = "user_input.transcript_interim_updated"
	// KindUserTranscriptFinal identifies the final transcript of a recognition session.
	KindUserTranscriptFinal Kind = "user_input.transcript_final"
	// KindUserInputFailed identifies recognition errors delivered to the error slot.
	KindUserInputFailed Kind = "user_input.failed"
)

// UserListeningChanged reports the recognition session entering or leaving
// the listening state.
type UserListeningChanged struct {
	Base
	Listening bool
}

// NewUserListeningChanged creates a listening state change event.
func NewUserListeningChanged(listening bool) UserListeningChanged {
	return UserListeningChanged{Base: NewBase(KindUserListeningChanged), Listening: listening}
}

// UserTranscriptInterimUpdated carries the live caption: finalized text so far
// plus the current interim tail. An empty transcript clears the caption.
type UserTranscriptInterimUpdated struct {
	Base
	Transcript string
}

// NewUserTranscriptInterimUpdated creates a live caption update event.
func NewUserTranscriptInterimUpdated(transcript string) UserTranscriptInterimUpdated {
	return UserTranscriptInterimUpdated{Base: NewBase(KindUserTranscriptInterimUpdated), Transcript: transcript}
}

// UserTranscriptFinal carries the trimmed final text of a recognition session.
// It may be empty.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

// NewUserTranscriptFinal creates a final transcript event.
func NewUserTranscriptFinal(transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal), Transcript: transcript}
}

// UserInputFailed carries a recognition error. Err is nil when the error slot
// was cleared.
type UserInputFailed struct {
	Base
	Err error
}

// NewUserInputFailed creates a recognition error event.
func NewUserInputFailed(err error) UserInputFailed {
	return UserInputFailed{Base: NewBase(KindUserInputFailed), Err: err}
}
