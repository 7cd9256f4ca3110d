package factory

import (
	"github.com/mikey/qr-guard/internal/adapters/qr"
	"github.com/mikey/qr-guard/internal/config"
	"go.uber.org/zap"
)

// CodecFactory creates the QR encoder and decoder
type CodecFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCodecFactory creates a new codec factory
func NewCodecFactory(cfg *config.Config, logger *zap.Logger) *CodecFactory {
	return &CodecFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEncoder creates an encoder using the configured recovery level
func (f *CodecFactory) CreateEncoder() (*qr.Encoder, error) {
	level, err := qr.ParseRecoveryLevel(f.cfg.GetQR().RecoveryLevel)
	if err != nil {
		return nil, err
	}
	return qr.NewEncoder(level, f.logger), nil
}

// CreateDecoder creates a decoder
func (f *CodecFactory) CreateDecoder() *qr.Decoder {
	return qr.NewDecoder(f.logger)
}
