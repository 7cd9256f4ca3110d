package core

import (
	"regexp"
	"strings"
)

const (
	ipv4Octet = `(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])`
	ipv4      = ipv4Octet + `(?:\.` + ipv4Octet + `){3}`

	hostChar  = `a-z0-9\x{00A0}-\x{FFFE}`
	hostLabel = `[` + hostChar + `](?:[` + hostChar + `\-]{0,61}[` + hostChar + `])?`
	topLevel  = `(?:[a-z\x{00A0}-\x{FFFE}]{2,63}|xn--[a-z0-9\-]{1,59})`
	domain    = `(?:` + hostLabel + `\.)+` + topLevel

	// userinfo is only accepted after an explicit scheme
	userInfoChars = `[a-z0-9$\-_.+!*'(),;?&=%]`
	userInfo      = userInfoChars + `{1,64}(?::` + userInfoChars + `{1,25})?@`
	scheme        = `(?:(?:https?|rtsp)://(?:` + userInfo + `)?)?`

	port = `(?::[0-9]{1,5})?`
	path = `(?:[/?#][^\s]*)?`
)

var (
	webURLPattern = regexp.MustCompile(`(?i)^` + scheme + `(?:` + domain + `|` + ipv4 + `)` + port + path + `$`)

	phonePattern = regexp.MustCompile(`^(?:\+[0-9]+[\- .]*)?(?:\([0-9]+\)[\- .]*)?[0-9][0-9\- .]+[0-9]$`)

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(?:\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)
)

// IsWebURL reports whether content as a whole looks like a web URL
func IsWebURL(content string) bool {
	return webURLPattern.MatchString(content)
}

// IsPhoneNumber reports whether content as a whole looks like a phone number
func IsPhoneNumber(content string) bool {
	return phonePattern.MatchString(content)
}

// IsEmailAddress reports whether content as a whole looks like an email address
func IsEmailAddress(content string) bool {
	return emailPattern.MatchString(content)
}

// foldASCII lowercases A-Z only. Every keyword and scheme in the rule tables
// is ASCII, so non-ASCII runes are left untouched regardless of locale.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// firstContained returns the first keyword, in table order, found in s
func firstContained(s string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return k, true
		}
	}
	return "", false
}
