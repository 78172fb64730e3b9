// Package runner executes a single probe under the skip, running, timed
// pass/fail policy and records the result in a ledger.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/ledger"
)

const (
	// DefaultSkipReason is recorded when a skipped probe has no reason.
	DefaultSkipReason = "Skipped"
	// PassPlaceholder is recorded when a passing probe returns no message.
	PassPlaceholder = "OK"
)

// ProbeFunc performs one check. The returned string becomes the outcome
// message on success.
type ProbeFunc func(ctx context.Context) (string, error)

type Config struct {
	// Timeout bounds each probe. Zero leaves probes unbounded, so a probe that
	// never returns stalls the run.
	Timeout    time.Duration
	SkipReason string
}

type Runner struct {
	ledger     *ledger.Ledger
	log        *slog.Logger
	timeout    time.Duration
	skipReason string
	now        func() time.Time

	mu      sync.RWMutex
	current string
}

func New(l *ledger.Ledger, log *slog.Logger, cfg Config) *Runner {
	if log == nil {
		log = slog.Default()
	}
	if cfg.SkipReason == "" {
		cfg.SkipReason = DefaultSkipReason
	}
	return &Runner{
		ledger:     l,
		log:        log,
		timeout:    cfg.Timeout,
		skipReason: cfg.SkipReason,
		now:        time.Now,
	}
}

// Run executes fn as the probe called name. When skip is true fn is never
// invoked. Failures are recorded, never returned.
func (r *Runner) Run(ctx context.Context, name string, fn ProbeFunc, skip bool, skipReason string) {
	if skip {
		if skipReason == "" {
			skipReason = r.skipReason
		}
		r.ledger.Upsert(name, domain.StatusSkip, skipReason, nil)
		r.log.Debug("probe skipped", "probe", name, "reason", skipReason)
		return
	}

	r.setCurrent(name)
	r.ledger.Upsert(name, domain.StatusRunning, "", nil)
	start := r.now()

	msg, err := r.invoke(ctx, fn)
	elapsed := r.now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}

	if err != nil {
		r.ledger.Upsert(name, domain.StatusFail, err.Error(), &elapsed)
		r.log.Warn("probe failed", "probe", name, "duration", elapsed, "error", err)
		return
	}

	if msg == "" {
		msg = PassPlaceholder
	}
	r.ledger.Upsert(name, domain.StatusPass, msg, &elapsed)
	r.log.Debug("probe passed", "probe", name, "duration", elapsed, "message", msg)
}

// Current returns the name of the probe in flight, or "".
func (r *Runner) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Done clears the in-flight pointer once the plan has finished.
func (r *Runner) Done() {
	r.setCurrent("")
}

func (r *Runner) setCurrent(name string) {
	r.mu.Lock()
	r.current = name
	r.mu.Unlock()
}

func (r *Runner) invoke(ctx context.Context, fn ProbeFunc) (string, error) {
	if r.timeout <= 0 {
		return call(ctx, fn)
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		msg string
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := call(ctx, fn)
		done <- result{msg, err}
	}()

	select {
	case res := <-done:
		return res.msg, res.err
	case <-ctx.Done():
		if err := parent.Err(); err != nil {
			return "", fmt.Errorf("probe cancelled: %w", err)
		}
		return "", fmt.Errorf("probe timed out after %s", r.timeout)
	}
}

func call(ctx context.Context, fn ProbeFunc) (msg string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("probe panicked: %v", rec)
		}
	}()
	return fn(ctx)
}
