package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF5F5F")
	ColorGreen   = lipgloss.Color("#5FD787")
	ColorYellow  = lipgloss.Color("#FFD75F")
	ColorCyan    = lipgloss.Color("#5FD7FF")
	ColorBlue    = lipgloss.Color("#5F87FF")
	ColorGray    = lipgloss.Color("#808080")
	ColorDimGray = lipgloss.Color("#4E4E4E")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#D787FF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	UserLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	AssistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorMagenta)

	UserBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBlue).
			Padding(0, 1)

	AssistantBubbleStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMagenta).
				Padding(0, 1)

	CaptionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorYellow)

	AudioBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ListeningStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	IdleStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SpeakingStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	GuideStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorCyan).
			Padding(0, 1)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)
