package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/model"
	"github.com/CUknot/rag-model/service/chat"
)

type ChatController struct {
	chatService *chat.Service
}

func NewChatController(chatService *chat.Service) *ChatController {
	return &ChatController{chatService: chatService}
}

// Chat answers the latest user turn and returns the whole conversation with
// the assistant turn appended.
func (cc *ChatController) Chat(ctx *gin.Context) {
	var req model.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversation, svcErr := cc.chatService.Chat(ctx.Request.Context(), req.Conversation)
	if svcErr != nil {
		log.Errorf("Chat error: %v", svcErr)
		ctx.JSON(svcErr.HTTPStatus(), gin.H{"error": svcErr.Error()})
		return
	}

	ctx.JSON(http.StatusOK, model.ChatResponse{Conversation: conversation})
}
