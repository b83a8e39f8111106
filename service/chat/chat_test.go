package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CUknot/rag-model/constant"
	"github.com/CUknot/rag-model/entity"
	"github.com/CUknot/rag-model/model"
	"github.com/CUknot/rag-model/repository"
	"github.com/CUknot/rag-model/repository/interfaces"
)

type stubModel struct {
	received []openai.ChatCompletionMessage
	answer   string
	err      error
}

func (s *stubModel) PostChatCompletionsNonStreamContent(_ context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	s.received = messages
	return s.answer, s.err
}

type stubSelector struct {
	contextText string
	triggered   bool
	query       string
}

func (s *stubSelector) Select(_ context.Context, query string) (string, bool) {
	s.query = query
	return s.contextText, s.triggered
}

type stubSession struct{}

func (stubSession) Begin() error    { return nil }
func (stubSession) Close() error    { return nil }
func (stubSession) Commit() error   { return nil }
func (stubSession) Rollback() error { return nil }

type stubChatLogRepository struct {
	mu       sync.Mutex
	inserted []*entity.ChatLog
	err      error
}

func (r *stubChatLogRepository) Insert(logs []*entity.ChatLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, logs...)
	return nil
}

func (r *stubChatLogRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inserted)
}

type stubFactory struct {
	chatLogs *stubChatLogRepository
}

func (f *stubFactory) NewSession(context.Context) interfaces.Session { return stubSession{} }

func (f *stubFactory) NewDocumentRepository(interfaces.Session) (repository.DocumentRepository, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *stubFactory) NewChatLogRepository(interfaces.Session) (repository.ChatLogRepository, error) {
	return f.chatLogs, nil
}

func newTestService(chatModel *stubModel, selector ContextSelector, cfg *Config) (*Service, *stubChatLogRepository) {
	chatLogs := &stubChatLogRepository{}
	service := NewService(&stubFactory{chatLogs: chatLogs}, selector, chatModel, cfg)
	return service, chatLogs
}

func userTurn(text string) model.Content      { return model.NewTurn(constant.RoleUser, text) }
func assistantTurn(text string) model.Content { return model.NewTurn(constant.RoleAssistant, text) }

func TestBuildSystemInstructionWithoutContext(t *testing.T) {
	instruction := BuildSystemInstruction("")
	assert.Equal(t, constant.PersonaSystemInstruction, instruction)
}

func TestBuildSystemInstructionEmbedsContext(t *testing.T) {
	instruction := BuildSystemInstruction("หนังเรื่องนี้ออกฉายปี 2010")
	assert.True(t, strings.HasPrefix(instruction, constant.PersonaSystemInstruction))
	assert.Contains(t, instruction, "หนังเรื่องนี้ออกฉายปี 2010")
}

func TestAssembleMessagesKeepsHistoryVerbatim(t *testing.T) {
	history := []model.Content{
		userTurn("สวัสดี"),
		assistantTurn("สวัสดีค่ะ"),
		userTurn("เป็นยังไงบ้าง"),
	}

	messages := AssembleMessages(history, "", 40)
	require.Len(t, messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "สวัสดี", messages[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[2].Role)
	assert.Equal(t, "สวัสดีค่ะ", messages[2].Content)
	assert.Equal(t, "เป็นยังไงบ้าง", messages[3].Content)
}

func TestAssembleMessagesTrimsOldestTurns(t *testing.T) {
	var history []model.Content
	for i := 0; i < 10; i++ {
		history = append(history, userTurn(fmt.Sprintf("user %d", i)))
		history = append(history, assistantTurn(fmt.Sprintf("assistant %d", i)))
	}

	messages := AssembleMessages(history, "", 4)
	require.Len(t, messages, 5)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "user 8", messages[1].Content)
	assert.Equal(t, "assistant 9", messages[4].Content)
}

func TestChatAppendsAssistantTurn(t *testing.T) {
	chatModel := &stubModel{answer: "มี Inception น่าดูนะคะ"}
	selector := &stubSelector{}
	service, _ := newTestService(chatModel, selector, nil)

	conversation, svcErr := service.Chat(context.Background(), []model.Content{userTurn("แนะนำหนังหน่อย")})
	require.Nil(t, svcErr)
	require.Len(t, conversation, 2)
	assert.Equal(t, constant.RoleAssistant, conversation[1].Role)
	assert.Equal(t, "มี Inception น่าดูนะคะ", conversation[1].Text())
	assert.Equal(t, "แนะนำหนังหน่อย", selector.query)
}

func TestChatPutsContextIntoSystemMessage(t *testing.T) {
	chatModel := &stubModel{answer: "ตอบจากบริบท"}
	selector := &stubSelector{contextText: "Inception กำกับโดยโนแลน", triggered: true}
	service, _ := newTestService(chatModel, selector, nil)

	_, svcErr := service.Chat(context.Background(), []model.Content{userTurn("หนังอะไรดี")})
	require.Nil(t, svcErr)
	require.NotEmpty(t, chatModel.received)
	assert.Equal(t, openai.ChatMessageRoleSystem, chatModel.received[0].Role)
	assert.Contains(t, chatModel.received[0].Content, "Inception กำกับโดยโนแลน")
}

func TestChatRejectsEmptyConversation(t *testing.T) {
	service, _ := newTestService(&stubModel{}, &stubSelector{}, nil)

	_, svcErr := service.Chat(context.Background(), nil)
	require.NotNil(t, svcErr)
	assert.Equal(t, model.ErrorParams, svcErr.Code)
}

func TestChatRejectsTrailingAssistantTurn(t *testing.T) {
	service, _ := newTestService(&stubModel{}, &stubSelector{}, nil)

	_, svcErr := service.Chat(context.Background(), []model.Content{
		userTurn("สวัสดี"),
		assistantTurn("สวัสดีค่ะ"),
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, model.ErrorParams, svcErr.Code)
}

func TestChatRejectsBlankUserMessage(t *testing.T) {
	service, _ := newTestService(&stubModel{}, &stubSelector{}, nil)

	_, svcErr := service.Chat(context.Background(), []model.Content{userTurn("   ")})
	require.NotNil(t, svcErr)
	assert.Equal(t, model.ErrorParams, svcErr.Code)
}

func TestChatWrapsModelFailure(t *testing.T) {
	chatModel := &stubModel{err: fmt.Errorf("502 bad gateway")}
	service, _ := newTestService(chatModel, &stubSelector{}, nil)

	_, svcErr := service.Chat(context.Background(), []model.Content{userTurn("สวัสดี")})
	require.NotNil(t, svcErr)
	assert.Equal(t, model.ErrorCollaborator, svcErr.Code)
	assert.Contains(t, svcErr.Error(), "502")
}

func TestChatLogsExchangeInBackground(t *testing.T) {
	chatModel := &stubModel{answer: "คำตอบ"}
	service, chatLogs := newTestService(chatModel, &stubSelector{}, nil)
	service.Start()
	defer service.Stop()

	_, svcErr := service.Chat(context.Background(), []model.Content{userTurn("คำถาม")})
	require.Nil(t, svcErr)

	assert.Eventually(t, func() bool { return chatLogs.count() == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "คำถาม", chatLogs.inserted[0].UserPrompt)
	assert.Equal(t, "คำตอบ", chatLogs.inserted[0].AssistantResponse)
}

func TestChatSucceedsWhenLogWriteFails(t *testing.T) {
	chatModel := &stubModel{answer: "คำตอบ"}
	chatLogs := &stubChatLogRepository{err: fmt.Errorf("db down")}
	service := NewService(&stubFactory{chatLogs: chatLogs}, &stubSelector{}, chatModel, nil)
	service.Start()
	defer service.Stop()

	conversation, svcErr := service.Chat(context.Background(), []model.Content{userTurn("คำถาม")})
	require.Nil(t, svcErr)
	assert.Len(t, conversation, 2)
}
