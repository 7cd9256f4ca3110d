package factory

import (
	"fmt"

	"github.com/mikey/qr-guard/internal/adapters/advice"
	"github.com/mikey/qr-guard/internal/adapters/bedrock"
	"github.com/mikey/qr-guard/internal/adapters/gemini"
	"github.com/mikey/qr-guard/internal/adapters/openai"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/utils"
	"go.uber.org/zap"
)

// AdvisorFactory creates LLM advisors
type AdvisorFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewAdvisorFactory creates a new advisor factory
func NewAdvisorFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *AdvisorFactory {
	return &AdvisorFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAdvisor creates the configured advisor. It returns nil when the
// advisor is disabled.
func (f *AdvisorFactory) CreateAdvisor() (core.Advisor, error) {
	advisorCfg := f.cfg.GetAdvisor()
	if !advisorCfg.Enabled {
		f.logger.Info("LLM advisor disabled")
		return nil, nil
	}

	client, err := f.createProvider(advisorCfg.Provider)
	if err != nil {
		return nil, err
	}

	if advisorCfg.MaxRetries <= 0 {
		return client, nil
	}

	backoff, err := f.cfg.GetDuration("advisor.retry_backoff")
	if err != nil {
		return nil, fmt.Errorf("invalid advisor retry backoff: %w", err)
	}
	return advice.NewRetryingAdvisor(client, advisorCfg.MaxRetries, backoff, f.logger), nil
}

func (f *AdvisorFactory) createProvider(provider string) (core.Advisor, error) {
	f.logger.Info("Creating LLM advisor", zap.String("provider", provider))

	switch provider {
	case "bedrock":
		client, err := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateAdvisor()
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gemini":
		client, err := gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateAdvisor()
		if err != nil {
			return nil, err
		}
		return client, nil
	case "openai":
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateAdvisor()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
