package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/ema-voice/core/conversations"
	"github.com/muesli/reflow/wordwrap"
)

// bubbleChrome is the width taken by a bubble's border and padding.
const bubbleChrome = 4

// RenderTurn renders a turn as a labelled chat bubble at most width wide.
// User bubbles are aligned right, assistant bubbles left.
func RenderTurn(turn conversations.Turn, width int) string {
	textWidth := max(10, width*3/4-bubbleChrome)
	body := wordwrap.String(turn.Text, textWidth)

	if turn.Speaker == conversations.SpeakerUser {
		bubble := UserLabelStyle.Render("You") + "\n" + UserBubbleStyle.Render(body)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}

	label := AssistantLabelStyle.Render("Ema")
	if turn.AudioRef != nil {
		label += " " + AudioBadgeStyle.Render("♪")
	}
	return label + "\n" + AssistantBubbleStyle.Render(body)
}

// RenderTranscript renders every turn followed by the live caption, if any.
func RenderTranscript(turns []conversations.Turn, caption string, width int) string {
	blocks := make([]string, 0, len(turns)+1)
	for _, turn := range turns {
		blocks = append(blocks, RenderTurn(turn, width))
	}
	if caption != "" {
		wrapped := wordwrap.String(caption+"▌", max(10, width-2))
		blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, CaptionStyle.Render(wrapped)))
	}
	return strings.Join(blocks, "\n")
}

// RenderGuide renders the voice input tips.
func RenderGuide(width int) string {
	tips := strings.Join([]string{
		"Voice input",
		"",
		"Press ctrl+t and speak. Your words appear as you talk and are sent",
		"when you pause. Press ctrl+t again to stop early.",
		"Typing is paused while the microphone is on.",
	}, "\n")
	return GuideStyle.Render(wordwrap.String(tips, max(20, width-bubbleChrome)))
}

// Divider renders a horizontal rule.
func Divider(width int) string {
	return DividerStyle.Render(strings.Repeat("─", max(0, width)))
}
