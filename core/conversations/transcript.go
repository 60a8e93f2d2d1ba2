package conversations

import (
	"strings"
	"sync"
)

// Transcript is the ordered log of committed turns.
type Transcript struct {
	mu    sync.RWMutex
	turns []Turn
	epoch uint64
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds turn to the end of the transcript and returns the epoch it was
// appended in.
func (t *Transcript) Append(turn Turn) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
	return t.epoch
}

// AppendIn adds turn only if the transcript has not been cleared since epoch.
func (t *Transcript) AppendIn(epoch uint64, turn Turn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.epoch != epoch {
		return false
	}
	t.turns = append(t.turns, turn)
	return true
}

// Clear drops every turn and starts a new epoch.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = nil
	t.epoch++
}

func (t *Transcript) Epoch() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.epoch
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Values iterates over turns from oldest to newest.
func (t *Transcript) Values(yield func(Turn) bool) {
	for _, turn := range t.Turns() {
		if !yield(turn) {
			return
		}
	}
}

// Turns returns a copy of the committed turns.
func (t *Transcript) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	turns := make([]Turn, len(t.turns))
	copy(turns, t.turns)
	return turns
}

// ContextFor renders the conversation as seen by turn: every committed turn
// as a "<Speaker>: <text>" line, leaving out turn itself and user turns
// committed after it, followed by a final "User: <text>" line for turn.
func (t *Transcript) ContextFor(turn Turn) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return RenderContext(t.turns, turn)
}

func RenderContext(turns []Turn, pending Turn) string {
	lines := make([]string, 0, len(turns)+1)
	passed := false
	for _, turn := range turns {
		if pending.ID != "" && turn.ID == pending.ID {
			passed = true
			continue
		}
		if passed && turn.Speaker == SpeakerUser {
			continue
		}
		lines = append(lines, turn.Speaker.Label()+": "+turn.Text)
	}
	lines = append(lines, SpeakerUser.Label()+": "+pending.Text)
	return strings.Join(lines, "\n")
}
