package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/qr-guard/internal/adapters/advice"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the Advisor interface using Google Gemini
type GeminiClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	settings      config.LLMConfig
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini advisor
func NewGeminiClient(
	ctx context.Context,
	apiKey string,
	modelName string,
	settings config.LLMConfig,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	opts ...option.ClientOption,
) (*GeminiClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(settings.Temperature)
	model.SetTopP(settings.TopP)
	model.SetMaxOutputTokens(int32(settings.MaxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(advice.SystemPrompt))

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		settings:      settings,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Advise asks the model for a second opinion on scanned content
func (c *GeminiClient) Advise(ctx context.Context, req *core.AdviceRequest) (*core.Advice, error) {
	content := c.textProcessor.ProcessText(req.Content, c.settings.MaxContentSize)
	prompt := advice.BuildPrompt(req, content)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	parsed, err := advice.ParseResponse(text)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Received Gemini advice",
		zap.String("model", c.modelName),
		zap.Float64("score", parsed.Score))

	return parsed.ToAdvice(c.modelName, ""), nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
