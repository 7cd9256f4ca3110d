package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateForGeneration(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{name: "Plain text", input: "hello"},
		{name: "Regular URL", input: "https://example.com"},
		{name: "Script tag", input: "<script>alert(1)</script>", reason: reasonHTMLTags},
		{name: "Upper case html tag", input: "<HTML><body>hi</body></HTML>", reason: reasonHTMLTags},
		{name: "Html tag with attributes is not matched", input: "<html lang=\"en\">"},
		{name: "Javascript scheme", input: "javascript:alert(1)", reason: reasonUnsafeScheme},
		{name: "Scheme takes precedence over tags", input: "data:text/html,<script>", reason: reasonUnsafeScheme},
		{name: "Scheme not at start", input: "see file:notes.txt"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reason := ValidateForGeneration(test.input)
			if test.reason == "" {
				assert.Nil(t, reason)
				return
			}
			require.NotNil(t, reason)
			assert.Equal(t, test.reason, *reason)
		})
	}
}

func TestContainsSensitiveData(t *testing.T) {
	tests := []struct {
		input     string
		sensitive bool
	}{
		{input: "my wifi password is x", sensitive: true},
		{input: "API_KEY=abc", sensitive: true},
		{input: "Bearer TOKEN", sensitive: true},
		{input: "OAuth callback", sensitive: true},
		{input: "monkey business", sensitive: true},
		{input: "hello world", sensitive: false},
		{input: "", sensitive: false},
	}

	for _, test := range tests {
		assert.Equal(t, test.sensitive, ContainsSensitiveData(test.input), test.input)
	}
}

func TestSensitiveDataDoesNotBlock(t *testing.T) {
	input := "my wifi password is x"

	assert.True(t, ContainsSensitiveData(input))
	assert.Nil(t, ValidateForGeneration(input))
	assert.Equal(t, ValidateForGeneration(input), ValidateForGeneration(input))
}

func TestOpenActionFor(t *testing.T) {
	assert.False(t, OpenActionFor(ActionDangerousScript).Visible)
	assert.Equal(t, OpenAction{Visible: true, Label: "Search", Intent: IntentWebSearch}, OpenActionFor(ActionText))
	assert.Equal(t, IntentView, OpenActionFor(ActionURL).Intent)
	assert.Equal(t, IntentDial, OpenActionFor(ActionTel).Intent)
	assert.Equal(t, IntentSendTo, OpenActionFor(ActionSMS).Intent)
	assert.Equal(t, IntentSendTo, OpenActionFor(ActionEmail).Intent)
	assert.Equal(t, IntentWiFiSettings, OpenActionFor(ActionWiFi).Intent)
	assert.Equal(t, "Open", OpenActionFor(ActionWiFi).Label)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))
	assert.Equal(t, "https://example.com/a/b/c/d/", Preview("https://example.com/a/b/c/d/"))
	assert.Equal(t, "https://example.com/a/b/c/d...", Preview("https://example.com/a/b/c/d/e/f"))
	assert.Equal(t, "ééééééééééééééééééééééééééé...", Preview("éééééééééééééééééééééééééééééééé"))
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "QR #1: tel:+15551234567", ResultLabel(1, "tel:+15551234567"))
	assert.Equal(t, "QR #2: https://example.com/a/very/...", ResultLabel(2, "https://example.com/a/very/long/path"))
}
