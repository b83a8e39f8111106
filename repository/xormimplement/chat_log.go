package xormimplement

import (
	"fmt"

	"github.com/CUknot/rag-model/entity"
	"github.com/CUknot/rag-model/repository"
)

type ChatLogRepository struct {
	session *Session
}

func NewChatLogRepository(session *Session) repository.ChatLogRepository {
	return &ChatLogRepository{session: session}
}

func (r *ChatLogRepository) Insert(logs []*entity.ChatLog) error {
	if len(logs) == 0 {
		return fmt.Errorf("chat_logs data cannot be empty")
	}
	for _, item := range logs {
		if item == nil {
			return fmt.Errorf("chat_logs item cannot be nil")
		}
	}

	_, err := r.session.Table(entity.TableNameChatLogs).Insert(logs)
	if err != nil {
		return fmt.Errorf("failed to insert chat_logs: %w", err)
	}
	return nil
}
