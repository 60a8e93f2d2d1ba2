package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	orchestration "github.com/koscakluka/ema-voice/core"
	"github.com/koscakluka/ema-voice/core/conversations"
	"github.com/koscakluka/ema-voice/core/events"
	"github.com/koscakluka/ema-voice/core/speechrecognition"

	tea "github.com/charmbracelet/bubbletea"
)

type sessionStub struct {
	mu sync.Mutex

	submitted  []string
	submitErr  error
	cleared    int
	toggles    int
	turns      []conversations.Turn
	caption    string
	indicators orchestration.Indicators
	listening  bool
	supported  bool
	voiceErr   error
	guideSeen  bool
}

func (s *sessionStub) SubmitAsync(_ context.Context, text string) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	s.submitted = append(s.submitted, text)
	done := make(chan struct{})
	close(done)
	return done, nil
}

func (s *sessionStub) ClearTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
	s.turns = nil
}

func (s *sessionStub) Transcript() []conversations.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]conversations.Turn(nil), s.turns...)
}

func (s *sessionStub) Indicators() orchestration.Indicators { return s.indicators }

func (s *sessionStub) ToggleListening(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggles++
}

func (s *sessionStub) Listening() bool            { return s.listening }
func (s *sessionStub) RecognitionSupported() bool { return s.supported }
func (s *sessionStub) RecognitionErr() error      { return s.voiceErr }
func (s *sessionStub) Caption() string            { return s.caption }

func (s *sessionStub) ConsumeVoiceGuide() bool {
	if !s.supported || s.guideSeen {
		return false
	}
	s.guideSeen = true
	return true
}

func (s *sessionStub) ShowVoiceGuide() { s.guideSeen = false }

func newTestModel(session *sessionStub) Model {
	m := New(context.Background(), session)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func typeText(m Model, text string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func press(t *testing.T, m Model, key tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

func TestEnterSubmitsTypedText(t *testing.T) {
	session := &sessionStub{}
	m := typeText(newTestModel(session), "What is 2+2?")

	m, cmd := press(t, m, tea.KeyEnter)
	if cmd == nil {
		t.Fatalf("expected a submit command")
	}
	if msg, ok := cmd().(SubmitResultMsg); !ok || msg.Err != nil {
		t.Fatalf("expected successful submit result, got %#v", msg)
	}

	if len(session.submitted) != 1 || session.submitted[0] != "What is 2+2?" {
		t.Fatalf("expected submitted prompt, got %q", session.submitted)
	}
	if value := m.input.Value(); value != "" {
		t.Fatalf("expected input to be cleared, got %q", value)
	}
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	session := &sessionStub{}
	m := typeText(newTestModel(session), "   ")

	if _, cmd := press(t, m, tea.KeyEnter); cmd != nil {
		t.Fatalf("expected no command for blank input")
	}
}

func TestInputIsGatedWhileThinking(t *testing.T) {
	session := &sessionStub{supported: true}
	m := newTestModel(session)

	session.indicators = orchestration.Indicators{Thinking: true, State: orchestration.StateAwaitingCompletion}
	updated, _ := m.Update(EventMsg{Event: events.NewIndicatorsChanged(true, false)})
	m = updated.(Model)

	m = typeText(m, "hello")
	if value := m.input.Value(); value != "" {
		t.Fatalf("expected typing to be disabled while thinking, got %q", value)
	}
	if _, cmd := press(t, m, tea.KeyCtrlT); cmd != nil {
		t.Fatalf("expected mic toggle to be disabled while thinking")
	}
	if !strings.Contains(m.View(), "thinking") {
		t.Fatalf("expected thinking indicator in view")
	}
}

func TestTypingIsGatedWhileListening(t *testing.T) {
	session := &sessionStub{supported: true, listening: true}
	m := newTestModel(session)
	updated, _ := m.Update(EventMsg{Event: events.NewUserListeningChanged(true)})
	m = updated.(Model)

	m = typeText(m, "hello")
	if value := m.input.Value(); value != "" {
		t.Fatalf("expected typing to be disabled while listening, got %q", value)
	}

	_, cmd := press(t, m, tea.KeyCtrlT)
	if cmd == nil {
		t.Fatalf("expected mic toggle command")
	}
	cmd()
	if session.toggles != 1 {
		t.Fatalf("expected one toggle, got %d", session.toggles)
	}
}

func TestUnsupportedRecognitionShowsWarning(t *testing.T) {
	session := &sessionStub{voiceErr: &speechrecognition.CapabilityUnsupportedError{}}
	m := newTestModel(session)

	if _, cmd := press(t, m, tea.KeyCtrlT); cmd != nil {
		t.Fatalf("expected mic toggle to be disabled when unsupported")
	}
	if !strings.Contains(m.View(), "Speech recognition is not supported on this device") {
		t.Fatalf("expected unsupported warning in view")
	}

	m = typeText(m, "typed still works")
	if value := m.input.Value(); value != "typed still works" {
		t.Fatalf("expected typed input, got %q", value)
	}
}

func TestPermissionErrorIsRenderedAsHint(t *testing.T) {
	session := &sessionStub{supported: true, guideSeen: true}
	m := newTestModel(session)

	session.voiceErr = &speechrecognition.PermissionError{Code: "not-allowed"}
	updated, _ := m.Update(EventMsg{Event: events.NewUserInputFailed(session.voiceErr)})
	m = updated.(Model)

	if !strings.Contains(m.View(), "Please allow microphone access") {
		t.Fatalf("expected permission hint in view")
	}
}

func TestEventRefreshesTranscriptAndCaption(t *testing.T) {
	session := &sessionStub{}
	m := newTestModel(session)

	session.turns = []conversations.Turn{
		conversations.NewUserTurn("What is 2+2?"),
		conversations.NewAssistantTurn("4", nil),
	}
	session.caption = "and what"
	updated, _ := m.Update(EventMsg{Event: events.NewTurnCommitted(session.turns[1])})
	m = updated.(Model)

	if len(m.turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(m.turns))
	}
	view := m.View()
	for _, expected := range []string{"What is 2+2?", "4", "and what"} {
		if !strings.Contains(view, expected) {
			t.Fatalf("expected view to contain %q", expected)
		}
	}
}

func TestClearKeyClearsTranscript(t *testing.T) {
	session := &sessionStub{turns: []conversations.Turn{conversations.NewUserTurn("hello")}}
	m := newTestModel(session)

	_, cmd := press(t, m, tea.KeyCtrlX)
	if cmd == nil {
		t.Fatalf("expected clear command")
	}
	cmd()
	if session.cleared != 1 {
		t.Fatalf("expected one clear, got %d", session.cleared)
	}
}

func TestVoiceGuideShownOnceAndReopened(t *testing.T) {
	session := &sessionStub{supported: true}
	m := newTestModel(session)
	if !m.showGuide {
		t.Fatalf("expected voice guide on first start")
	}

	m, _ = press(t, m, tea.KeyEsc)
	if m.showGuide {
		t.Fatalf("expected voice guide to close")
	}
	if again := New(context.Background(), session); again.showGuide {
		t.Fatalf("expected voice guide only once per session")
	}

	m, _ = press(t, m, tea.KeyCtrlG)
	if !m.showGuide {
		t.Fatalf("expected voice guide to reopen")
	}
}

func TestSubmitErrorIsTransient(t *testing.T) {
	m := newTestModel(&sessionStub{})

	updated, cmd := m.Update(SubmitResultMsg{Err: errors.New("orchestrator is closed")})
	m = updated.(Model)
	if cmd == nil || m.errorMessage == "" {
		t.Fatalf("expected transient error with clear command")
	}

	updated, _ = m.Update(ClearTransientErrorMsg{})
	if m = updated.(Model); m.errorMessage != "" {
		t.Fatalf("expected error to be cleared, got %q", m.errorMessage)
	}
}

func TestQuitKey(t *testing.T) {
	_, cmd := press(t, newTestModel(&sessionStub{}), tea.KeyCtrlC)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}
