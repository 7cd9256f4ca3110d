package advice

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/mikey/qr-guard/internal/core"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// RetryingAdvisor retries transient failures of another advisor with
// exponential backoff
type RetryingAdvisor struct {
	next       core.Advisor
	maxRetries uint64
	backoff    time.Duration
	logger     *zap.Logger
}

// NewRetryingAdvisor wraps next so that failed calls are retried up to maxRetries times
func NewRetryingAdvisor(next core.Advisor, maxRetries int, backoff time.Duration, logger *zap.Logger) *RetryingAdvisor {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	return &RetryingAdvisor{
		next:       next,
		maxRetries: uint64(maxRetries),
		backoff:    backoff,
		logger:     logger,
	}
}

// Advise calls the wrapped advisor, retrying errors that may be transient
func (a *RetryingAdvisor) Advise(ctx context.Context, req *core.AdviceRequest) (*core.Advice, error) {
	var result *core.Advice
	attempt := 0

	b := retry.WithMaxRetries(a.maxRetries, retry.NewExponential(a.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		advice, err := a.next.Advise(ctx, req)
		if err != nil {
			if !shouldRetry(err) {
				return err
			}
			a.logger.Warn("Advisor call failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		result = advice
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Close closes the wrapped advisor when it holds resources
func (a *RetryingAdvisor) Close() error {
	if closer, ok := a.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// shouldRetry reports whether another attempt could succeed. A reply the
// model got wrong once is not retried, nor is a cancelled request.
func shouldRetry(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrUnparseableResponse):
		return false
	default:
		return true
	}
}
