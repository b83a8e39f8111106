package chat

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/constant"
	"github.com/CUknot/rag-model/entity"
	"github.com/CUknot/rag-model/model"
	"github.com/CUknot/rag-model/pkg/tools"
	"github.com/CUknot/rag-model/repository/factory"
)

// ModelClient is the slice of the chat-model client the service needs.
type ModelClient interface {
	PostChatCompletionsNonStreamContent(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// ContextSelector decides whether a query needs retrieved context.
type ContextSelector interface {
	Select(ctx context.Context, query string) (string, bool)
}

type Config struct {
	HistoryLimit int
}

// Service runs the retrieval-augmented chat flow: select context for the
// latest user turn, assemble the model payload, call the model, append the
// assistant turn and hand the exchange to the background log writer. The
// caller owns the history; the service holds no per-conversation state.
type Service struct {
	repositoryFactory factory.Factory
	selector          ContextSelector
	chatModel         ModelClient
	historyLimit      int
	logProcessor      *tools.Processor
}

func NewService(repositoryFactory factory.Factory, selector ContextSelector, chatModel ModelClient, cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = constant.DefaultHistoryLimit
	}

	s := &Service{
		repositoryFactory: repositoryFactory,
		selector:          selector,
		chatModel:         chatModel,
		historyLimit:      historyLimit,
	}
	s.logProcessor = tools.NewProcessor("chat_log_writer", tools.GetDefaultConfig(), s.writeChatLogs)
	return s
}

// Start brings up the background chat-log writer.
func (s *Service) Start() {
	s.logProcessor.Start()
}

// Stop flushes pending chat logs and waits for in-flight writes.
func (s *Service) Stop() {
	s.logProcessor.Stop()
}

// Chat answers the latest user turn and returns the conversation with the
// assistant turn appended. The conversation must end with a non-empty user
// turn. Chat-log persistence is fire-and-forget and never fails the request.
func (s *Service) Chat(ctx context.Context, conversation []model.Content) ([]model.Content, *model.Error) {
	if len(conversation) == 0 {
		return nil, model.NewErrorWithMessage(model.ErrorParams, "conversation cannot be empty")
	}

	last := conversation[len(conversation)-1]
	if last.Role != constant.RoleUser {
		return nil, model.NewErrorWithMessage(model.ErrorParams, "conversation must end with a user turn")
	}
	query := last.Text()
	if strings.TrimSpace(query) == constant.EmptyString {
		return nil, model.NewErrorWithMessage(model.ErrorParams, "user message cannot be empty")
	}

	contextText := constant.EmptyString
	if s.selector != nil {
		var triggered bool
		contextText, triggered = s.selector.Select(ctx, query)
		log.Debugf("chat: retrieval triggered=%v, context length=%d", triggered, len(contextText))
	}

	messages := AssembleMessages(conversation, contextText, s.historyLimit)
	answer, err := s.chatModel.PostChatCompletionsNonStreamContent(ctx, messages)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, errors.Wrap(err, "chat completion"))
	}

	s.logProcessor.Enqueue(&entity.ChatLog{
		UserPrompt:        query,
		AssistantResponse: answer,
	})

	return append(conversation, model.NewTurn(constant.RoleAssistant, answer)), nil
}

func (s *Service) writeChatLogs(batchData []interface{}) error {
	chatLogs := make([]*entity.ChatLog, 0, len(batchData))
	for _, item := range batchData {
		chatLog, ok := item.(*entity.ChatLog)
		if !ok {
			log.Errorf("chat: unexpected chat log type %T", item)
			continue
		}
		chatLogs = append(chatLogs, chatLog)
	}
	if len(chatLogs) == 0 {
		return nil
	}

	session := s.repositoryFactory.NewSession(context.Background())
	defer tools.ErrorWithPrintContext(session.Close, "chat: close chat log session")

	chatLogRepository, err := s.repositoryFactory.NewChatLogRepository(session)
	if err != nil {
		return err
	}
	return chatLogRepository.Insert(chatLogs)
}
