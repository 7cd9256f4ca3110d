package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/factory"
	"github.com/mikey/qr-guard/internal/logging"
	"github.com/mikey/qr-guard/internal/ports"
	"github.com/mikey/qr-guard/internal/utils"
	"github.com/mikey/qr-guard/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container.
// An empty configFile searches the default config locations.
func BuildContainer(configFile string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		if configFile != "" {
			return config.NewFromFile(configFile)
		}
		return config.New()
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	if err := provideService(container); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideService registers the safety service and everything it needs
// except configuration, logging and the cache.
func provideService(container *dig.Container) error {
	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register advisor
	if err := container.Provide(factory.NewAdvisorFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.AdvisorFactory) (core.Advisor, error) {
		return f.CreateAdvisor()
	}); err != nil {
		return err
	}

	// Register QR codec
	if err := container.Provide(factory.NewCodecFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.CodecFactory) (core.QREncoder, error) {
		return f.CreateEncoder()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.CodecFactory) core.QRDecoder {
		return f.CreateDecoder()
	}); err != nil {
		return err
	}

	// Register trusted hosts
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.TrustChecker {
		return whitelist.NewChecker(cfg.GetAdvisor().TrustedHosts, logger)
	}); err != nil {
		return err
	}

	// Register service options
	if err := container.Provide(factory.NewServiceOptions); err != nil {
		return err
	}

	// Register safety service
	return container.Provide(core.NewSafetyService)
}
