package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/vmkteam/embedlog"
)

const (
	defaultClassifyModel   = openai.GPT3Dot5Turbo
	defaultClassifyTimeout = 30 * time.Second
)

const promptTemplate = "Which of the following categories does the expense '%s' belong to? " +
	"%s. " +
	"User may answer in any language. Answer with one word - the name of the category " +
	"in English. If you don't know answer Other. " +
	"Please do not add punctuation or any other signs to your response."

// OpenAIConfig configures the OpenAI-backed classifier.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIClassifier classifies expense descriptions with a chat completion
// call. The response is normalized into the fixed category list, so the
// caller always receives a valid label or an error.
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  embedlog.Logger
}

// NewOpenAIClassifier creates a classifier over the OpenAI API.
func NewOpenAIClassifier(cfg OpenAIConfig, logger embedlog.Logger) *OpenAIClassifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/v1"
	}

	model := cfg.Model
	if model == "" {
		model = defaultClassifyModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultClassifyTimeout
	}

	return &OpenAIClassifier{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Classify asks the model for a category and forces the answer into the
// fixed list. The call is bounded by the configured timeout.
func (c *OpenAIClassifier) Classify(ctx context.Context, description string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, description, strings.Join(Categories, ", "))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: 20,
	})
	if err != nil {
		return "", fmt.Errorf("classification api call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from classification api")
	}

	label := NormalizeCategory(resp.Choices[0].Message.Content)
	c.logger.Print(ctx, "expense classified",
		"raw", resp.Choices[0].Message.Content,
		"label", label,
		"duration", time.Since(started),
	)

	return label, nil
}
