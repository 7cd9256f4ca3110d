package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsTrusted(t *testing.T) {
	checker := NewChecker([]string{" Example.com ", "intranet.local.", ""}, zap.NewNop())

	tests := []struct {
		content string
		trusted bool
	}{
		{content: "https://example.com/login", trusted: true},
		{content: "HTTPS://EXAMPLE.COM", trusted: true},
		{content: "https://docs.example.com/a", trusted: true},
		{content: "example.com/path", trusted: true},
		{content: "http://intranet.local:8080/", trusted: true},
		{content: "https://user@example.com.evil.io/", trusted: false},
		{content: "https://notexample.com", trusted: false},
		{content: "hello world", trusted: false},
		{content: "", trusted: false},
	}

	for _, test := range tests {
		assert.Equal(t, test.trusted, checker.IsTrusted(test.content), test.content)
	}
}

func TestEmptyWhitelist(t *testing.T) {
	checker := NewChecker(nil, nil)
	assert.False(t, checker.IsTrusted("https://example.com"))
}
