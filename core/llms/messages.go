package llms

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Messages builds the two message request sent for every completion: the
// persona followed by the whole serialized conversation.
func (o CompletionOptions) Messages(conversation string) []Message {
	return []Message{
		{Role: MessageRoleSystem, Content: o.Persona},
		{Role: MessageRoleUser, Content: conversation},
	}
}
