package whitelist

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Checker reports whether scanned URLs point at trusted hosts
type Checker struct {
	hosts  []string
	logger *zap.Logger
}

// NewChecker creates a new whitelist checker
func NewChecker(hosts []string, logger *zap.Logger) *Checker {
	// Normalize hosts (lowercase, no trailing dot)
	normalized := make([]string, 0, len(hosts))
	for _, host := range hosts {
		host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
		if host != "" {
			normalized = append(normalized, host)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized whitelist checker", zap.Strings("hosts", normalized))
	}

	return &Checker{
		hosts:  normalized,
		logger: logger,
	}
}

// hostOf extracts the lowercased host name of URL-shaped content
func hostOf(content string) string {
	raw := strings.TrimSpace(content)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

// IsTrusted checks if the content's host, or a parent domain of it, is whitelisted
func (c *Checker) IsTrusted(content string) bool {
	if len(c.hosts) == 0 {
		return false
	}

	host := hostOf(content)
	if host == "" {
		return false
	}

	for _, trusted := range c.hosts {
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			if c.logger != nil {
				c.logger.Debug("Host is whitelisted",
					zap.String("host", host),
					zap.String("rule", trusted))
			}
			return true
		}
	}

	return false
}
