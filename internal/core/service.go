package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrEmptyInput is returned when there is no text to encode
	ErrEmptyInput = errors.New("please enter text")
	// ErrConfirmationRequired is returned when sensitive input was not confirmed
	ErrConfirmationRequired = errors.New("input contains sensitive data, confirmation required")
	// ErrNoCodeFound is returned when an image holds no QR code
	ErrNoCodeFound = errors.New("no QR code found")
	// ErrUnreadableCode is returned when a code was found but could not be read
	ErrUnreadableCode = errors.New("failed to scan image")
)

// RejectionError carries the reason generation input was refused
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return "input rejected: " + e.Reason
}

// ServiceOptions holds the tunables of SafetyService
type ServiceOptions struct {
	AdvisorEnabled  bool
	AdviceThreshold float64
	CacheEnabled    bool
	CacheTTL        time.Duration
	QRSize          int
}

// SafetyService is the core service for scanning and generating QR content
type SafetyService struct {
	advisor Advisor
	cache   CacheRepository
	encoder QREncoder
	decoder QRDecoder
	trust   TrustChecker
	logger  *zap.Logger
	opts    ServiceOptions

	// inflight collapses concurrent advisor calls for the same content
	inflight singleflight.Group
}

// NewSafetyService creates a new safety service. advisor, cache and trust may be nil.
func NewSafetyService(
	advisor Advisor,
	cache CacheRepository,
	encoder QREncoder,
	decoder QRDecoder,
	trust TrustChecker,
	logger *zap.Logger,
	opts ServiceOptions,
) *SafetyService {
	return &SafetyService{
		advisor: advisor,
		cache:   cache,
		encoder: encoder,
		decoder: decoder,
		trust:   trust,
		logger:  logger,
		opts:    opts,
	}
}

// ContentKey returns the cache key for a piece of content
func ContentKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Scan classifies decoded QR content. It never fails: advisor problems are
// logged and the report is returned without advice.
func (s *SafetyService) Scan(ctx context.Context, content string) *ScanReport {
	verdict, rule := classify(content)

	s.logger.Debug("Classified content",
		zap.String("rule", rule),
		zap.String("action_type", verdict.ActionType.String()),
		zap.Bool("safe", verdict.IsSafe))

	report := &ScanReport{
		ID:         uuid.NewString(),
		Content:    content,
		Preview:    Preview(content),
		Verdict:    verdict,
		OpenAction: OpenActionFor(verdict.ActionType),
		ScannedAt:  time.Now(),
	}

	if s.shouldAdvise(content, verdict) {
		report.Advice = s.advise(ctx, content, verdict)
	}

	return report
}

// ScanImage decodes every QR code held by an image and classifies each one.
// Reports come back in the decoder's order.
func (s *SafetyService) ScanImage(ctx context.Context, r io.Reader) ([]*ScanReport, error) {
	if s.decoder == nil {
		return nil, fmt.Errorf("QR decoder not configured")
	}

	contents, err := s.decoder.Decode(r)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, ErrNoCodeFound
	}

	reports := make([]*ScanReport, 0, len(contents))
	for _, content := range contents {
		reports = append(reports, s.Scan(ctx, content))
	}

	if len(reports) > 1 {
		s.logger.Info("Image holds several QR codes", zap.Int("codes", len(reports)))
	}

	return reports, nil
}

// shouldAdvise decides whether the advisor is consulted for a verdict
func (s *SafetyService) shouldAdvise(content string, verdict ValidationResult) bool {
	if !s.opts.AdvisorEnabled || s.advisor == nil {
		return false
	}
	if verdict.ActionType != ActionURL {
		return false
	}

	// Check trusted hosts
	if s.trust != nil && s.trust.IsTrusted(content) {
		s.logger.Info("Skipping advisor for trusted host",
			zap.String("content", Preview(content)),
			zap.String("action", "trust_bypass"))
		return false
	}

	return true
}

func (s *SafetyService) advise(ctx context.Context, content string, verdict ValidationResult) *Advice {
	key := ContentKey(content)

	// Check cache if enabled
	if s.cacheEnabled() {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Cache hit for content", zap.String("key", key))
			return &Advice{
				Suspicious:  entry.Suspicious,
				Score:       entry.Score,
				Confidence:  entry.Confidence,
				Explanation: entry.Explanation,
				AdvisedAt:   time.Now(),
				ModelUsed:   "cache",
			}
		}
	}

	v, err, shared := s.inflight.Do(key, func() (interface{}, error) {
		return s.fetchAdvice(ctx, key, content, verdict)
	})
	if err != nil {
		s.logger.Warn("Advisor failed, returning verdict without advice", zap.Error(err))
		return nil
	}
	if shared {
		s.logger.Debug("Shared in-flight advice", zap.String("key", key))
	}

	advice := *v.(*Advice)
	return &advice
}

// fetchAdvice calls the advisor and caches its answer
func (s *SafetyService) fetchAdvice(ctx context.Context, key string, content string, verdict ValidationResult) (*Advice, error) {
	advice, err := s.advisor.Advise(ctx, &AdviceRequest{Content: content, Verdict: verdict})
	if err != nil {
		return nil, err
	}
	if advice == nil {
		return nil, errors.New("advisor returned no advice")
	}
	advice.Suspicious = advice.Score >= s.opts.AdviceThreshold

	// Update cache with result if enabled
	if s.cacheEnabled() {
		now := time.Now()
		entry := &CacheEntry{
			ContentKey:  key,
			Suspicious:  advice.Suspicious,
			Score:       advice.Score,
			Confidence:  advice.Confidence,
			Explanation: advice.Explanation,
			ModelUsed:   advice.ModelUsed,
			LastSeen:    now,
			ExpiresAt:   now.Add(s.opts.CacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return advice, nil
}

func (s *SafetyService) cacheEnabled() bool {
	return s.opts.CacheEnabled && s.cache != nil
}

// Generate validates input and encodes it as a PNG QR code. Sensitive input
// is only encoded once the caller has confirmed it.
func (s *SafetyService) Generate(ctx context.Context, input string, confirmed bool) ([]byte, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	if reason := ValidateForGeneration(input); reason != nil {
		s.logger.Info("Rejected generation input", zap.String("reason", *reason))
		return nil, &RejectionError{Reason: *reason}
	}

	if ContainsSensitiveData(input) && !confirmed {
		return nil, ErrConfirmationRequired
	}

	if s.encoder == nil {
		return nil, fmt.Errorf("QR encoder not configured")
	}

	png, err := s.encoder.Encode(input, s.opts.QRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	s.logger.Debug("Generated QR code",
		zap.Int("size", s.opts.QRSize),
		zap.Int("png_bytes", len(png)))

	return png, nil
}
