package advice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/qr-guard/internal/core"
)

// ErrUnparseableResponse is returned when a model reply holds no usable JSON
var ErrUnparseableResponse = errors.New("unparseable LLM response")

// SystemPrompt is sent as the system message by providers that support one
const SystemPrompt = "You are a QR code safety reviewer. Respond only with JSON."

const promptFormat = `You are a QR code safety reviewer. A QR code was scanned and decoded to the content below.
A rule-based classifier labelled it as %s and reported: %s

Decide whether acting on this content is likely to harm the user (phishing, malware, scams).
Respond with a JSON object containing:
- suspicious: boolean (true if the content looks malicious)
- score: number between 0 and 1 (higher means more likely to be malicious)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- explanation: string (brief explanation of your assessment)

Content:
%s

Respond only with the JSON object and nothing else.`

// BuildPrompt formats the review prompt. content is expected to be sanitized
// and truncated by the caller.
func BuildPrompt(req *core.AdviceRequest, content string) string {
	findings := "no warnings"
	if w := req.Verdict.Warning(); w != "" {
		findings = strings.ReplaceAll(w, "\n", " ")
	}
	return fmt.Sprintf(promptFormat, req.Verdict.ActionType, findings, content)
}

// Response represents the structured response from the LLM
type Response struct {
	Suspicious  bool    `json:"suspicious"`
	Score       float64 `json:"score"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// ParseResponse decodes the model reply. Models often wrap the JSON object in
// prose or code fences, so the outermost {...} is tried when the full text is not JSON.
func ParseResponse(text string) (*Response, error) {
	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err == nil {
		return &resp, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrUnparseableResponse)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
	}
	return &resp, nil
}

// ToAdvice converts the parsed reply into core advice
func (r *Response) ToAdvice(model string, processingID string) *core.Advice {
	return &core.Advice{
		Suspicious:   r.Suspicious,
		Score:        clamp(r.Score),
		Confidence:   clamp(r.Confidence),
		Explanation:  r.Explanation,
		AdvisedAt:    time.Now(),
		ModelUsed:    model,
		ProcessingID: processingID,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
