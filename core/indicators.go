package orchestration

import (
	"sync"

	"github.com/koscakluka/ema-voice/core/events"
)

// State is the round trip phase of the orchestrator.
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingCompletion State = "awaiting-completion"
	StateAwaitingSynthesis  State = "awaiting-synthesis"
)

// Indicators is what the UI shows about in-flight round trips. Thinking
// covers the whole round trip, Speaking only its synthesis.
type Indicators struct {
	Thinking bool
	Speaking bool
	State    State
}

func indicatorsFromEvent(event events.IndicatorsChanged) Indicators {
	indicators := Indicators{Thinking: event.Thinking, Speaking: event.Speaking, State: StateIdle}
	switch {
	case event.Speaking:
		indicators.State = StateAwaitingSynthesis
	case event.Thinking:
		indicators.State = StateAwaitingCompletion
	}
	return indicators
}

type phase int

const (
	phaseNone phase = iota
	phaseCompletion
	phaseSynthesis
)

// indicatorTracker counts round trips per phase. With concurrent turns the
// indicators are the union over every in-flight round trip.
type indicatorTracker struct {
	mu         sync.Mutex
	completion int
	synthesis  int
}

func (t *indicatorTracker) current() Indicators {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.indicatorsLocked()
}

func (t *indicatorTracker) indicatorsLocked() Indicators {
	indicators := Indicators{
		Thinking: t.completion+t.synthesis > 0,
		Speaking: t.synthesis > 0,
		State:    StateIdle,
	}
	switch {
	case indicators.Speaking:
		indicators.State = StateAwaitingSynthesis
	case indicators.Thinking:
		indicators.State = StateAwaitingCompletion
	}
	return indicators
}

// move transitions one round trip from one phase to another and reports the
// indicators before and after.
func (t *indicatorTracker) move(from, to phase) (before, after Indicators) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before = t.indicatorsLocked()
	t.adjust(from, -1)
	t.adjust(to, 1)
	after = t.indicatorsLocked()
	return before, after
}

func (t *indicatorTracker) adjust(p phase, delta int) {
	switch p {
	case phaseCompletion:
		t.completion += delta
	case phaseSynthesis:
		t.synthesis += delta
	}
}
