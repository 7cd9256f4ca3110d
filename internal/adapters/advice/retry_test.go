package advice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mikey/qr-guard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyAdvisor struct {
	failures int
	err      error
	calls    int
	closed   bool
}

func (a *flakyAdvisor) Advise(_ context.Context, _ *core.AdviceRequest) (*core.Advice, error) {
	a.calls++
	if a.calls <= a.failures {
		return nil, a.err
	}
	return &core.Advice{Score: 0.3, ModelUsed: "flaky"}, nil
}

func (a *flakyAdvisor) Close() error {
	a.closed = true
	return nil
}

func testRequest() *core.AdviceRequest {
	return &core.AdviceRequest{Content: "https://example.com", Verdict: core.ClassifyScannedContent("https://example.com")}
}

func TestRetryingAdvisorRecovers(t *testing.T) {
	next := &flakyAdvisor{failures: 2, err: errors.New("503 service unavailable")}
	advisor := NewRetryingAdvisor(next, 3, time.Millisecond, zap.NewNop())

	result, err := advisor.Advise(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "flaky", result.ModelUsed)
	assert.Equal(t, 3, next.calls)
}

func TestRetryingAdvisorGivesUp(t *testing.T) {
	next := &flakyAdvisor{failures: 10, err: errors.New("connection reset")}
	advisor := NewRetryingAdvisor(next, 2, time.Millisecond, zap.NewNop())

	_, err := advisor.Advise(context.Background(), testRequest())
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, 3, next.calls)
}

func TestRetryingAdvisorSkipsPermanentErrors(t *testing.T) {
	next := &flakyAdvisor{failures: 10, err: fmt.Errorf("%w: no JSON object found", ErrUnparseableResponse)}
	advisor := NewRetryingAdvisor(next, 5, time.Millisecond, zap.NewNop())

	_, err := advisor.Advise(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrUnparseableResponse)
	assert.Equal(t, 1, next.calls)
}

func TestRetryingAdvisorClose(t *testing.T) {
	next := &flakyAdvisor{}
	require.NoError(t, NewRetryingAdvisor(next, 1, 0, zap.NewNop()).Close())
	assert.True(t, next.closed)
}
