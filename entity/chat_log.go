package entity

import "time"

const (
	TableNameChatLogs = "chat_logs"

	ChatLogFieldID                = "id"
	ChatLogFieldUserPrompt        = "user_prompt"
	ChatLogFieldAssistantResponse = "assistant_response"
	ChatLogFieldCreatedAt         = "created_at"
)

// ChatLog is one request/response turn. Append-only; writes are fire-and-forget
// and never block or fail the chat path.
type ChatLog struct {
	ID                int64     `xorm:"pk autoincr 'id'" json:"id"`
	UserPrompt        string    `xorm:"text 'user_prompt'" json:"user_prompt"`
	AssistantResponse string    `xorm:"text 'assistant_response'" json:"assistant_response"`
	CreatedAt         time.Time `xorm:"created 'created_at'" json:"created_at"`
}

func (e *ChatLog) TableName() string {
	return TableNameChatLogs
}
