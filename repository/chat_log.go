package repository

import (
	"github.com/CUknot/rag-model/entity"
)

type ChatLogRepository interface {
	Insert(logs []*entity.ChatLog) error
}
