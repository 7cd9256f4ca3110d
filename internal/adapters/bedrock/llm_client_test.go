package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInvoker struct {
	body  string
	err   error
	input *bedrockruntime.InvokeModelInput
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func newTestClient(invoker ModelInvoker, modelID string) *BedrockClient {
	logger := zap.NewNop()
	settings := config.LLMConfig{MaxTokens: 100, Temperature: 0.1, TopP: 0.9, MaxContentSize: 2048}
	return NewBedrockClient(invoker, modelID, settings, logger, utils.NewTextProcessor(logger))
}

func testRequest(content string) *core.AdviceRequest {
	return &core.AdviceRequest{Content: content, Verdict: core.ClassifyScannedContent(content)}
}

const reply = `{"suspicious": true, "score": 0.85, "confidence": 0.7, "explanation": "Credential harvesting"}`

func TestAdviseModelFamilies(t *testing.T) {
	quoted, err := json.Marshal(reply)
	require.NoError(t, err)

	tests := []struct {
		name       string
		modelID    string
		body       string
		payloadKey string
	}{
		{
			name:       "anthropic",
			modelID:    "anthropic.claude-v2",
			body:       `{"completion": ` + string(quoted) + `}`,
			payloadKey: "max_tokens_to_sample",
		},
		{
			name:       "titan",
			modelID:    "amazon.titan-text-express-v1",
			body:       `{"results": [{"outputText": ` + string(quoted) + `}]}`,
			payloadKey: "textGenerationConfig",
		},
		{
			name:       "generic",
			modelID:    "meta.llama3-8b-instruct-v1:0",
			body:       `{"output": ` + string(quoted) + `}`,
			payloadKey: "max_tokens",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			invoker := &fakeInvoker{body: test.body}
			client := newTestClient(invoker, test.modelID)

			result, err := client.Advise(context.Background(), testRequest("http://login-example.com"))
			require.NoError(t, err)

			assert.True(t, result.Suspicious)
			assert.InDelta(t, 0.85, result.Score, 1e-9)
			assert.Equal(t, test.modelID, result.ModelUsed)

			require.NotNil(t, invoker.input)
			assert.Equal(t, test.modelID, aws.ToString(invoker.input.ModelId))

			var payload map[string]any
			require.NoError(t, json.Unmarshal(invoker.input.Body, &payload))
			assert.Contains(t, payload, test.payloadKey)
		})
	}
}

func TestAnthropicPromptFraming(t *testing.T) {
	client := newTestClient(&fakeInvoker{}, "anthropic.claude-v2")

	body, err := client.buildPayload("review this")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "\n\nHuman: review this\n\nAssistant:", payload["prompt"])
}

func TestGenericRawBodyFallback(t *testing.T) {
	client := newTestClient(&fakeInvoker{}, "custom.model")

	text, err := client.extractText([]byte(`{"unexpected": "shape"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"unexpected": "shape"}`, text)
}

func TestAdviseErrors(t *testing.T) {
	client := newTestClient(&fakeInvoker{err: errors.New("throttled")}, "anthropic.claude-v2")
	_, err := client.Advise(context.Background(), testRequest("https://example.com"))
	assert.ErrorContains(t, err, "throttled")

	client = newTestClient(&fakeInvoker{body: `{"results": []}`}, "amazon.titan-text-lite-v1")
	_, err = client.Advise(context.Background(), testRequest("https://example.com"))
	assert.Error(t, err)
}
