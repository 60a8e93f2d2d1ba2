package events

// KindAssistantResponseFinal identifies a completed reply text.
const KindAssistantResponseFinal Kind = "assistant_response.final"

// AssistantResponseFinal carries the reply text returned by the completion
// service.
type AssistantResponseFinal struct {
	Base
	TurnID string
	Text   string
}

// NewAssistantResponseFinal creates a reply text event.
func NewAssistantResponseFinal(turnID, text string) AssistantResponseFinal {
	return AssistantResponseFinal{Base: NewBase(KindAssistantResponseFinal), TurnID: turnID, Text: text}
}
