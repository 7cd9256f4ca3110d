package core

import "fmt"

// Intent is what a frontend should do when the user presses "open"
type Intent string

const (
	IntentNone         Intent = "none"
	IntentView         Intent = "view"
	IntentDial         Intent = "dial"
	IntentSendTo       Intent = "send_to"
	IntentWiFiSettings Intent = "wifi_settings"
	IntentWebSearch    Intent = "web_search"
)

// OpenAction describes the "open" button offered next to a verdict
type OpenAction struct {
	Visible bool   `json:"visible"`
	Label   string `json:"label,omitempty"`
	Intent  Intent `json:"intent"`
}

// OpenActionFor returns the open action for an action type. Dangerous
// payloads get no open action at all, plain text is offered as a search.
func OpenActionFor(action ActionType) OpenAction {
	switch action {
	case ActionDangerousScript:
		return OpenAction{Visible: false, Intent: IntentNone}
	case ActionText:
		return OpenAction{Visible: true, Label: "Search", Intent: IntentWebSearch}
	case ActionURL:
		return OpenAction{Visible: true, Label: "Open", Intent: IntentView}
	case ActionTel:
		return OpenAction{Visible: true, Label: "Open", Intent: IntentDial}
	case ActionSMS, ActionEmail:
		return OpenAction{Visible: true, Label: "Open", Intent: IntentSendTo}
	case ActionWiFi:
		return OpenAction{Visible: true, Label: "Open", Intent: IntentWiFiSettings}
	default:
		return OpenAction{Visible: false, Intent: IntentNone}
	}
}

const (
	previewLimit = 30
	previewKeep  = 27
)

// Preview shortens content for list display
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewKeep]) + "..."
}

// ResultLabel names the n-th (1-based) code of an image in a result list
func ResultLabel(n int, content string) string {
	return fmt.Sprintf("QR #%d: %s", n, Preview(content))
}
