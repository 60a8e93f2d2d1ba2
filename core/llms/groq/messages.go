package groq

import "github.com/koscakluka/ema-voice/core/llms"

type requestBody struct {
	Model       string         `json:"model"`
	Messages    []llms.Message `json:"messages"`
	Temperature float32        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
	TopP        float32        `json:"top_p"`
	Stream      bool           `json:"stream"`
}

type responseBody struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
