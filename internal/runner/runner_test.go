package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/ledger"
)

func newTestRunner(cfg Config) (*Runner, *ledger.Ledger) {
	l := ledger.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(l, log, cfg), l
}

func TestRunSkipNeverInvokesProbe(t *testing.T) {
	r, l := newTestRunner(Config{})
	called := false

	r.Run(context.Background(), "guarded", func(context.Context) (string, error) {
		called = true
		return "", errors.New("must not run")
	}, true, "No wallet")

	assert.False(t, called)
	got, ok := l.Get("guarded")
	require.True(t, ok)
	assert.Equal(t, domain.StatusSkip, got.Status)
	assert.Equal(t, "No wallet", got.Message)
	assert.Nil(t, got.Duration)
}

func TestRunSkipDefaultReason(t *testing.T) {
	r, l := newTestRunner(Config{})
	r.Run(context.Background(), "x", nil, true, "")

	got, _ := l.Get("x")
	assert.Equal(t, DefaultSkipReason, got.Message)

	r2, l2 := newTestRunner(Config{SkipReason: "건너뜀"})
	r2.Run(context.Background(), "x", nil, true, "")
	got, _ = l2.Get("x")
	assert.Equal(t, "건너뜀", got.Message)
}

func TestRunPassUsesPlaceholder(t *testing.T) {
	r, l := newTestRunner(Config{})
	r.Run(context.Background(), "empty", func(context.Context) (string, error) {
		return "", nil
	}, false, "")
	r.Run(context.Background(), "msg", func(context.Context) (string, error) {
		return "3 words", nil
	}, false, "")

	empty, _ := l.Get("empty")
	assert.Equal(t, domain.StatusPass, empty.Status)
	assert.Equal(t, PassPlaceholder, empty.Message)
	require.NotNil(t, empty.Duration)

	msg, _ := l.Get("msg")
	assert.Equal(t, "3 words", msg.Message)
}

func TestRunFailureKeepsErrorText(t *testing.T) {
	r, l := newTestRunner(Config{})
	r.Run(context.Background(), "broken", func(context.Context) (string, error) {
		return "", errors.New("Failed to export")
	}, false, "")

	got, _ := l.Get("broken")
	assert.Equal(t, domain.StatusFail, got.Status)
	assert.Equal(t, "Failed to export", got.Message)
	require.NotNil(t, got.Duration)
	assert.GreaterOrEqual(t, *got.Duration, int64(0))
}

func TestRunRecordsElapsedTime(t *testing.T) {
	r, l := newTestRunner(Config{})
	r.Run(context.Background(), "sleepy", func(ctx context.Context) (string, error) {
		time.Sleep(100 * time.Millisecond)
		return "", nil
	}, false, "")

	got, _ := l.Get("sleepy")
	elapsed, ok := got.Elapsed()
	require.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestRunMarksRunningBeforeSettling(t *testing.T) {
	r, l := newTestRunner(Config{})
	var during domain.Outcome
	var current string

	r.Run(context.Background(), "observed", func(context.Context) (string, error) {
		during, _ = l.Get("observed")
		current = r.Current()
		return "done", nil
	}, false, "")

	assert.Equal(t, domain.StatusRunning, during.Status)
	assert.Empty(t, during.Message)
	assert.Nil(t, during.Duration)
	assert.Equal(t, "observed", current)

	r.Done()
	assert.Empty(t, r.Current())
}

func TestRunRecoversPanics(t *testing.T) {
	r, l := newTestRunner(Config{})
	r.Run(context.Background(), "panicky", func(context.Context) (string, error) {
		panic("nil hook")
	}, false, "")

	got, _ := l.Get("panicky")
	assert.Equal(t, domain.StatusFail, got.Status)
	assert.Contains(t, got.Message, "nil hook")
}

func TestRunTimeout(t *testing.T) {
	r, l := newTestRunner(Config{Timeout: 20 * time.Millisecond})
	release := make(chan struct{})
	defer close(release)

	r.Run(context.Background(), "hung", func(context.Context) (string, error) {
		<-release
		return "", nil
	}, false, "")

	got, _ := l.Get("hung")
	assert.Equal(t, domain.StatusFail, got.Status)
	assert.Contains(t, got.Message, "timed out")
}

func TestRunCancelledIsNotATimeout(t *testing.T) {
	r, l := newTestRunner(Config{Timeout: time.Minute})
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	r.Run(ctx, "hung", func(context.Context) (string, error) {
		<-release
		return "", nil
	}, false, "")

	got, _ := l.Get("hung")
	assert.Equal(t, domain.StatusFail, got.Status)
	assert.Equal(t, "probe cancelled: context canceled", got.Message)
	assert.NotContains(t, got.Message, "timed out")
}
