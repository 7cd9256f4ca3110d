package core

import (
	"context"
	"io"
)

// Advisor gives a second opinion on scanned content, typically backed by an LLM
type Advisor interface {
	// Advise reviews content that the classifier already produced a verdict for
	Advise(ctx context.Context, req *AdviceRequest) (*Advice, error)
}

// CacheRepository defines the interface for caching advice
type CacheRepository interface {
	// Get retrieves a cached entry for a content key
	Get(ctx context.Context, contentKey string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, contentKey string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// QREncoder renders text as a QR code image
type QREncoder interface {
	// Encode returns a PNG of the given pixel size
	Encode(content string, size int) ([]byte, error)
}

// QRDecoder extracts the text of the QR codes in an image
type QRDecoder interface {
	// Decode returns the text of every code found, at least one on success
	Decode(r io.Reader) ([]string, error)
}

// TrustChecker reports whether scanned content points at a trusted host
type TrustChecker interface {
	IsTrusted(content string) bool
}
