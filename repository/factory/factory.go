package factory

import (
	"context"

	"github.com/CUknot/rag-model/repository"
	"github.com/CUknot/rag-model/repository/interfaces"
)

type Factory interface {
	NewSession(ctx context.Context) interfaces.Session
	NewDocumentRepository(session interfaces.Session) (repository.DocumentRepository, error)
	NewChatLogRepository(session interfaces.Session) (repository.ChatLogRepository, error)
}
