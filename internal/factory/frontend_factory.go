package factory

import (
	"fmt"
	"os"

	"github.com/mikey/qr-guard/internal/adapters/frontend"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/ports"
	"go.uber.org/zap"
)

// FrontendFactory creates frontends based on configuration
type FrontendFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.SafetyService
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, service *core.SafetyService) *FrontendFactory {
	return &FrontendFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateFrontend creates a frontend based on the configuration
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	frontendType := f.cfg.GetString("server.frontend")

	switch frontendType {
	case "http":
		serverCfg, err := f.cfg.GetServer()
		if err != nil {
			return nil, err
		}
		return frontend.NewHTTPFrontend(f.service, f.logger, serverCfg), nil
	case "cli":
		return f.CreateCliFrontend(), nil
	default:
		return nil, fmt.Errorf("unsupported frontend type: %s", frontendType)
	}
}

// CreateCliFrontend creates a CLI frontend on stdout and stdin
func (f *FrontendFactory) CreateCliFrontend() *frontend.CliFrontend {
	return frontend.NewCliFrontend(f.service, f.logger, os.Stdout, os.Stdin, f.cfg.GetBool("cli.verbose"))
}
