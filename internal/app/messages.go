package app

import "github.com/koscakluka/ema-voice/core/events"

// EventMsg wraps an event emitted by the orchestrator.
type EventMsg struct {
	Event events.Event
}

// SubmitResultMsg carries the outcome of committing a typed prompt.
type SubmitResultMsg struct {
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
