package llm_model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const (
	clientNameChatModel = "chat_model"
)

// ClientChatModel wraps the hosted chat model behind an OpenAI-compatible
// endpoint. The generation config (model, temperature, max tokens) is fixed at
// construction.
type ClientChatModel struct {
	config *Config
	client *openai.Client
}

func NewClient(conf *Config) (*ClientChatModel, error) {
	if conf.Token == "" {
		return nil, fmt.Errorf("%s: api token is required", clientNameChatModel)
	}
	if conf.Model == "" {
		return nil, fmt.Errorf("%s: model name is required", clientNameChatModel)
	}

	clientConfig := openai.DefaultConfig(conf.Token)
	if conf.Addr != "" {
		clientConfig.BaseURL = conf.Addr
	}

	return &ClientChatModel{
		config: conf,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// PostChatCompletionsNonStream sends the full message list and returns the
// complete response.
func (zc *ClientChatModel) PostChatCompletionsNonStream(c context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionResponse, error) {
	request := openai.ChatCompletionRequest{
		Model:       zc.config.Model,
		Messages:    messages,
		MaxTokens:   zc.config.MaxTokens,
		Temperature: zc.config.Temperature,
		Stream:      false,
	}

	// serialize the full request only when debug logging is on
	if log.GetLevel() == log.DebugLevel {
		if requestJSON, err := json.Marshal(request); err == nil {
			log.Debugf("%s chat completion request: %s", clientNameChatModel, string(requestJSON))
		}
	}

	response, err := zc.client.CreateChatCompletion(c, request)
	if err != nil {
		log.Errorf("%s chat completion error: %v", clientNameChatModel, err)
		return nil, err
	}

	return &response, nil
}

// PostChatCompletionsNonStreamContent returns only the first choice's text.
func (zc *ClientChatModel) PostChatCompletionsNonStreamContent(c context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	response, err := zc.PostChatCompletionsNonStream(c, messages)
	if err != nil {
		return "", err
	}

	if response == nil {
		log.Errorf("%s chat completion response is nil", clientNameChatModel)
		return "", fmt.Errorf("chat completion response is nil")
	}
	if len(response.Choices) == 0 {
		log.Errorf("%s chat completion response has no choices", clientNameChatModel)
		return "", fmt.Errorf("chat completion response has no choices")
	}

	content := response.Choices[0].Message.Content
	if content == "" {
		log.Warnf("%s chat completion response content is empty", clientNameChatModel)
	}
	return content, nil
}
