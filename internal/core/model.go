package core

import (
	"time"
)

// ActionType is the kind of action a piece of QR content represents
type ActionType string

const (
	ActionURL             ActionType = "URL"
	ActionWiFi            ActionType = "WIFI"
	ActionTel             ActionType = "TEL"
	ActionSMS             ActionType = "SMS"
	ActionEmail           ActionType = "EMAIL"
	ActionText            ActionType = "TEXT"
	ActionDangerousScript ActionType = "DANGEROUS_SCRIPT"
)

// String returns the upper-case name of the action type
func (a ActionType) String() string {
	return string(a)
}

// ValidationResult is the verdict produced for scanned content
type ValidationResult struct {
	IsSafe         bool       `json:"is_safe"`
	WarningMessage *string    `json:"warning_message"`
	ActionType     ActionType `json:"action_type"`
}

// Warning returns the warning text, or an empty string when none was raised
func (r ValidationResult) Warning() string {
	if r.WarningMessage == nil {
		return ""
	}
	return *r.WarningMessage
}

// ScanReport wraps a verdict with the data a frontend needs to render it
type ScanReport struct {
	ID         string           `json:"id"`
	Content    string           `json:"content"`
	Preview    string           `json:"preview"`
	Verdict    ValidationResult `json:"verdict"`
	OpenAction OpenAction       `json:"open_action"`
	Advice     *Advice          `json:"advice,omitempty"`
	ScannedAt  time.Time        `json:"scanned_at"`
}

// AdviceRequest is what an Advisor is asked to review
type AdviceRequest struct {
	Content string
	Verdict ValidationResult
}

// Advice is a second opinion on scanned content returned by an Advisor
type Advice struct {
	Suspicious   bool      `json:"suspicious"`
	Score        float64   `json:"score"`
	Confidence   float64   `json:"confidence"`
	Explanation  string    `json:"explanation"`
	AdvisedAt    time.Time `json:"advised_at"`
	ModelUsed    string    `json:"model_used"`
	ProcessingID string    `json:"processing_id,omitempty"`
}

// CacheEntry is a cached advice keyed by content digest
type CacheEntry struct {
	ContentKey  string
	Suspicious  bool
	Score       float64
	Confidence  float64
	Explanation string
	ModelUsed   string
	LastSeen    time.Time
	ExpiresAt   time.Time
}
