package chat

import (
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/CUknot/rag-model/constant"
	"github.com/CUknot/rag-model/model"
)

// BuildSystemInstruction returns the persona instruction, extended with the
// context directive when retrieved context exists. Without context the
// persona text is returned unchanged.
func BuildSystemInstruction(contextText string) string {
	if contextText == constant.EmptyString {
		return constant.PersonaSystemInstruction
	}
	return constant.PersonaSystemInstruction + fmt.Sprintf(constant.ContextDirectiveTemplate, contextText)
}

// AssembleMessages builds the model payload: one system message followed by
// the conversation history verbatim, in order. When the history exceeds
// historyLimit turns only the most recent turns are kept; the system message
// never counts against the limit.
func AssembleMessages(history []model.Content, contextText string, historyLimit int) []openai.ChatCompletionMessage {
	if historyLimit > 0 && len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: BuildSystemInstruction(contextText),
	})
	for _, turn := range history {
		messages = append(messages, turn.ToOpenAIMessage())
	}
	return messages
}
