package openai

import (
	"context"
	"fmt"

	"github.com/mikey/qr-guard/internal/adapters/advice"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the Advisor interface using OpenAI
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	settings      config.LLMConfig
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI advisor
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	settings config.LLMConfig,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		settings:      settings,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Advise asks the model for a second opinion on scanned content
func (c *OpenAIClient) Advise(ctx context.Context, req *core.AdviceRequest) (*core.Advice, error) {
	content := c.textProcessor.ProcessText(req.Content, c.settings.MaxContentSize)
	prompt := advice.BuildPrompt(req, content)

	// Create the request
	chatReq := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: advice.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.settings.MaxTokens,
		Temperature: c.settings.Temperature,
		TopP:        c.settings.TopP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	// Call OpenAI API
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	parsed, err := advice.ParseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Received OpenAI advice",
		zap.String("model", c.modelName),
		zap.String("processing_id", resp.ID),
		zap.Float64("score", parsed.Score))

	return parsed.ToAdvice(c.modelName, resp.ID), nil
}
