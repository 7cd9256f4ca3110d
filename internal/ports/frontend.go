package ports

import (
	"context"

	"github.com/mikey/qr-guard/internal/core"
)

// Frontend defines the interface for a surface that scans content for users
type Frontend interface {
	// Scan classifies content and returns the report shown to the user
	Scan(ctx context.Context, content string) *core.ScanReport

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
