package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// ParseRecoveryLevel maps a configured error correction name to a go-qrcode level
func ParseRecoveryLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return qrcode.Low, nil
	case "", "medium":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, fmt.Errorf("unknown QR recovery level: %s", name)
	}
}

// Encoder renders content as PNG QR codes
type Encoder struct {
	level  qrcode.RecoveryLevel
	logger *zap.Logger
}

// NewEncoder creates a new QR encoder
func NewEncoder(level qrcode.RecoveryLevel, logger *zap.Logger) *Encoder {
	return &Encoder{
		level:  level,
		logger: logger,
	}
}

// Encode returns a size x size PNG holding content
func (e *Encoder) Encode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, e.level, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	e.logger.Debug("Encoded QR code",
		zap.Int("size", size),
		zap.Int("content_bytes", len(content)),
		zap.Int("png_bytes", len(png)))

	return png, nil
}
