package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// scanInput is the content under classification together with its folded form
type scanInput struct {
	raw   string
	lower string
}

// scanRule is one step of the classification chain
type scanRule struct {
	name    string
	matches func(in scanInput) bool
	verdict func(in scanInput) ValidationResult
}

// scanRules is evaluated in order and the first matching rule wins.
// The dangerous scheme rule must stay first: a payload such as
// "javascript:http://..." is URL-shaped as well.
var scanRules = []scanRule{
	{
		name: "dangerous_scheme",
		matches: func(in scanInput) bool {
			return hasAnyPrefix(in.lower, dangerousSchemes)
		},
		verdict: fixedVerdict(false, msgDangerousScheme, ActionDangerousScript),
	},
	{
		name: "url",
		matches: func(in scanInput) bool {
			return IsWebURL(in.raw) || strings.HasPrefix(in.lower, "http")
		},
		verdict: urlVerdict,
	},
	{
		name: "wifi",
		matches: func(in scanInput) bool {
			return strings.HasPrefix(in.lower, "wifi:")
		},
		verdict: fixedVerdict(false, msgWiFi, ActionWiFi),
	},
	{
		name: "tel",
		matches: func(in scanInput) bool {
			return strings.HasPrefix(in.lower, "tel:") || IsPhoneNumber(in.raw)
		},
		verdict: fixedVerdict(false, msgTel, ActionTel),
	},
	{
		name: "sms",
		matches: func(in scanInput) bool {
			return strings.HasPrefix(in.lower, "smsto:") || strings.HasPrefix(in.lower, "sms:")
		},
		verdict: fixedVerdict(false, msgSMS, ActionSMS),
	},
	{
		name: "email",
		matches: func(in scanInput) bool {
			return strings.HasPrefix(in.lower, "mailto:") || IsEmailAddress(in.raw)
		},
		verdict: fixedVerdict(true, "", ActionEmail),
	},
}

func fixedVerdict(safe bool, warning string, action ActionType) func(scanInput) ValidationResult {
	return func(scanInput) ValidationResult {
		return newResult(safe, warning, action)
	}
}

func newResult(safe bool, warning string, action ActionType) ValidationResult {
	result := ValidationResult{IsSafe: safe, ActionType: action}
	if warning != "" {
		result.WarningMessage = &warning
	}
	return result
}

// urlWarnings collects the heuristic signals raised for a URL, in detection order
func urlWarnings(in scanInput) []string {
	var warnings []string

	if strings.HasPrefix(in.lower, "http://") {
		warnings = append(warnings, msgUnsecuredHTTP)
	}

	if keyword, ok := firstContained(in.lower, riskyKeywords); ok {
		warnings = append(warnings, fmt.Sprintf(msgSuspiciousFormat, keyword))
	}

	if utf8.RuneCountInString(in.raw) > maxURLLength {
		warnings = append(warnings, msgLongURL)
	}

	return warnings
}

func urlVerdict(in scanInput) ValidationResult {
	warnings := urlWarnings(in)
	if len(warnings) == 0 {
		return newResult(true, "", ActionURL)
	}
	return newResult(false, strings.Join(warnings, warningSeparator), ActionURL)
}

// ClassifyScannedContent decides what kind of action decoded QR content
// represents and whether it is safe to act on. It is total: content that
// matches no rule is safe TEXT.
func ClassifyScannedContent(content string) ValidationResult {
	result, _ := classify(content)
	return result
}

// classify also returns the name of the rule that matched, "default" if none did
func classify(content string) (ValidationResult, string) {
	in := scanInput{raw: content, lower: foldASCII(content)}

	for _, rule := range scanRules {
		if rule.matches(in) {
			return rule.verdict(in), rule.name
		}
	}

	return newResult(true, "", ActionText), "default"
}
