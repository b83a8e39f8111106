package model

import (
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/CUknot/rag-model/constant"
)

// Part is one piece of a conversation turn. Only text parts exist.
type Part struct {
	Text string `json:"text"`
}

// Content is one conversation turn, tagged with a role.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// ChatRequest carries the full conversation so far; the caller owns the history
// between requests and receives it back with one assistant turn appended.
type ChatRequest struct {
	Conversation []Content `json:"conversation" binding:"required"`
}

type ChatResponse struct {
	Conversation []Content `json:"conversation"`
}

// Text joins the turn's parts into a single string.
func (c Content) Text() string {
	if len(c.Parts) == 1 {
		return c.Parts[0].Text
	}
	var sb strings.Builder
	for _, p := range c.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// NewTurn builds a single-part turn.
func NewTurn(role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}

// ToOpenAIMessage converts a wire turn into the chat model's message type.
func (c Content) ToOpenAIMessage() openai.ChatCompletionMessage {
	role := openai.ChatMessageRoleUser
	if c.Role == constant.RoleAssistant {
		role = openai.ChatMessageRoleAssistant
	}
	return openai.ChatCompletionMessage{Role: role, Content: c.Text()}
}

// ContextResponse is the diagnostic shape of GET /get_context/.
type ContextResponse struct {
	Query     string `json:"query"`
	Context   string `json:"context"`
	Triggered bool   `json:"triggered"`
}
