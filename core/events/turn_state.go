package events

import "github.com/koscakluka/ema-voice/core/conversations"

const (
	KindTurnCommitted     Kind = "turn_state.committed"
	KindTurnStarted       Kind = "turn_state.started"
	KindTurnCompleted     Kind = "turn_state.completed"
	KindTurnFailed        Kind = "turn_state.failed"
	KindTranscriptCleared Kind = "turn_state.transcript_cleared"
	KindIndicatorsChanged Kind = "turn_state.indicators_changed"
)

// TurnCommitted carries a turn that was just appended to the transcript.
type TurnCommitted struct {
	Base
	Turn conversations.Turn
}

func NewTurnCommitted(turn conversations.Turn) TurnCommitted {
	return TurnCommitted{Base: NewBase(KindTurnCommitted), Turn: turn}
}

// TurnStarted marks the start of a round trip for the user turn TurnID.
type TurnStarted struct {
	Base
	TurnID string
}

func NewTurnStarted(turnID string) TurnStarted {
	return TurnStarted{Base: NewBase(KindTurnStarted), TurnID: turnID}
}

// TurnCompleted marks a round trip that produced a reply.
type TurnCompleted struct {
	Base
	TurnID string
}

func NewTurnCompleted(turnID string) TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted), TurnID: turnID}
}

// TurnFailed marks a round trip whose completion failed. The reply appended
// for it carries the error text.
type TurnFailed struct {
	Base
	TurnID string
	Err    error
}

func NewTurnFailed(turnID string, err error) TurnFailed {
	return TurnFailed{Base: NewBase(KindTurnFailed), TurnID: turnID, Err: err}
}

type TranscriptCleared struct{ Base }

func NewTranscriptCleared() TranscriptCleared {
	return TranscriptCleared{Base: NewBase(KindTranscriptCleared)}
}

// IndicatorsChanged carries the thinking and speaking indicators after a
// change.
type IndicatorsChanged struct {
	Base
	Thinking bool
	Speaking bool
}

func NewIndicatorsChanged(thinking, speaking bool) IndicatorsChanged {
	return IndicatorsChanged{Base: NewBase(KindIndicatorsChanged), Thinking: thinking, Speaking: speaking}
}
