package factory

import (
	"fmt"

	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
)

// NewServiceOptions reads the safety service tunables from configuration
func NewServiceOptions(cfg *config.Config) (core.ServiceOptions, error) {
	ttl, err := cfg.GetDuration("cache.ttl")
	if err != nil {
		return core.ServiceOptions{}, fmt.Errorf("invalid cache TTL: %w", err)
	}

	advisorCfg := cfg.GetAdvisor()
	return core.ServiceOptions{
		AdvisorEnabled:  advisorCfg.Enabled,
		AdviceThreshold: advisorCfg.Threshold,
		CacheEnabled:    cfg.GetBool("cache.enabled"),
		CacheTTL:        ttl,
		QRSize:          cfg.GetQR().Size,
	}, nil
}
