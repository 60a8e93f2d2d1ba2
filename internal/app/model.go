package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	orchestration "github.com/koscakluka/ema-voice/core"
	"github.com/koscakluka/ema-voice/core/conversations"
	"github.com/koscakluka/ema-voice/core/speechrecognition"
	"github.com/koscakluka/ema-voice/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// reserved is the number of lines around the transcript viewport.
const reserved = 7

// Model is the root bubbletea model of the voice assistant.
type Model struct {
	ctx     context.Context
	session Session

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	turns      []conversations.Turn
	caption    string
	indicators orchestration.Indicators
	listening  bool
	supported  bool
	voiceErr   error
	showGuide  bool

	errorMessage   string
	errorTransient bool

	width  int
	height int
}

// New creates a model driving session. Session calls that emit events run as
// commands, never inside Update.
func New(ctx context.Context, session Session) Model {
	input := textinput.New()
	input.Placeholder = "Type a message"
	input.CharLimit = 2000
	input.Focus()

	return Model{
		ctx:       ctx,
		session:   session,
		input:     input,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.SpinnerStyle)),
		viewport:  viewport.New(80, 20),
		supported: session.RecognitionSupported(),
		voiceErr:  session.RecognitionErr(),
		showGuide: session.ConsumeVoiceGuide(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(3, msg.Height-reserved)
		m.input.Width = max(10, msg.Width-4)
		m.refreshViewport()
		return m, nil

	case EventMsg:
		wasThinking := m.indicators.Thinking
		m.syncFromSession()
		if m.indicators.Thinking && !wasThinking {
			return m, m.spinner.Tick
		}
		return m, nil

	case SubmitResultMsg:
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			m.errorTransient = true
			return m, clearTransientErrorCmd()
		}
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.indicators.Thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// syncFromSession replaces the displayed state with the session's.
func (m *Model) syncFromSession() {
	m.turns = m.session.Transcript()
	m.caption = m.session.Caption()
	m.indicators = m.session.Indicators()
	m.listening = m.session.Listening()
	m.voiceErr = m.session.RecognitionErr()
	m.refreshViewport()

	if m.canType() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(ui.RenderTranscript(m.turns, m.caption, m.viewport.Width))
	m.viewport.GotoBottom()
}

// canType reports whether text entry is enabled.
func (m Model) canType() bool {
	return !m.indicators.Thinking && !m.listening
}

// canToggleMic reports whether the microphone control is enabled.
func (m Model) canToggleMic() bool {
	return m.supported && !m.indicators.Thinking
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit:
		return m, tea.Quit

	case KeySubmit:
		if !m.canType() {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		return m, submitCmd(m.ctx, m.session, text)

	case KeyToggleMic:
		if !m.canToggleMic() {
			return m, nil
		}
		if !m.listening {
			m.showGuide = false
		}
		return m, toggleListeningCmd(m.ctx, m.session)

	case KeyClear:
		return m, clearCmd(m.session)

	case KeyVoiceGuide:
		if m.showGuide {
			m.showGuide = false
			return m, nil
		}
		m.session.ShowVoiceGuide()
		m.showGuide = m.session.ConsumeVoiceGuide()
		return m, nil

	case KeyEscape:
		m.showGuide = false
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if !m.canType() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func submitCmd(ctx context.Context, session Session, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := session.SubmitAsync(ctx, text)
		return SubmitResultMsg{Err: err}
	}
}

func toggleListeningCmd(ctx context.Context, session Session) tea.Cmd {
	return func() tea.Msg {
		session.ToggleListening(ctx)
		return nil
	}
}

func clearCmd(session Session) tea.Cmd {
	return func() tea.Msg {
		session.ClearTranscript()
		return nil
	}
}

func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	sections := []string{
		ui.TitleStyle.Render("EMA") + " " + m.renderStatus(),
		ui.Divider(m.width),
	}
	if m.showGuide {
		sections = append(sections, ui.RenderGuide(m.width))
	} else {
		sections = append(sections, m.viewport.View())
	}
	sections = append(sections, ui.Divider(m.width))

	if warning := m.renderWarning(); warning != "" {
		sections = append(sections, warning)
	}
	sections = append(sections, m.renderInput(), m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderStatus() string {
	var parts []string
	switch {
	case m.listening:
		parts = append(parts, ui.ListeningStyle.Render("● listening"))
	case m.supported:
		parts = append(parts, ui.IdleStyle.Render("○ mic off"))
	}
	if m.indicators.Thinking {
		parts = append(parts, m.spinner.View()+ui.DimStyle.Render(" thinking"))
	}
	if m.indicators.Speaking {
		parts = append(parts, ui.SpeakingStyle.Render("♪ speaking"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderWarning() string {
	if m.errorMessage != "" {
		return ui.ErrorTextStyle.Render(m.errorMessage)
	}
	if message := speechrecognition.UserMessage(m.voiceErr); message != "" {
		return ui.WarningStyle.Render(message)
	}
	return ""
}

func (m Model) renderInput() string {
	if m.listening {
		return ui.DimStyle.Render("  Listening... press ctrl+t to stop")
	}
	if m.indicators.Thinking {
		return ui.DimStyle.Render("  Waiting for a reply...")
	}
	return m.input.View()
}

func (m Model) renderFooter() string {
	parts := []string{
		ui.FooterKeyStyle.Render("enter") + ui.FooterDescStyle.Render(" send"),
	}
	if m.supported {
		parts = append(parts,
			ui.FooterKeyStyle.Render("ctrl+t")+ui.FooterDescStyle.Render(" mic"),
			ui.FooterKeyStyle.Render("ctrl+g")+ui.FooterDescStyle.Render(" voice tips"),
		)
	}
	parts = append(parts,
		ui.FooterKeyStyle.Render("ctrl+x")+ui.FooterDescStyle.Render(" clear"),
		ui.FooterKeyStyle.Render("ctrl+c")+ui.FooterDescStyle.Render(" quit"),
	)
	return strings.Join(parts, "  ")
}
