package engine

import (
	"context"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/metrics"
)

// DefaultQuotaThreshold is the remaining-points floor below which callers wait
// for the hourly budget to reset.
const DefaultQuotaThreshold = 100.0

// QuotaGate guards a shared hourly point budget.
//
// Every call made through Do runs under the gate's semaphore, so the request,
// the quota check, and any resulting wait complete before the next caller may
// issue a request against the same budget. Use one gate per budget.
type QuotaGate struct {
	// Threshold is the remaining-points floor; zero means DefaultQuotaThreshold.
	Threshold float64

	// Sleep suspends the caller; it must return early with ctx.Err() when ctx
	// is done. Nil uses a timer-based sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger *logging.Logger

	sem chan struct{}

	mu   sync.Mutex
	last *core.QuotaSnapshot
}

// NewQuotaGate returns a gate with the given threshold.
func NewQuotaGate(threshold float64) *QuotaGate {
	return &QuotaGate{
		Threshold: threshold,
		sem:       make(chan struct{}, 1),
	}
}

// Do runs fn while holding the gate and then enforces the quota snapshot fn
// returns. A nil snapshot means the response carried no quota information
// and no wait occurs. Errors from fn are returned unchanged.
//
// The snapshot is checked once; the budget is not re-checked after a wait.
func (g *QuotaGate) Do(ctx context.Context, fn func(ctx context.Context) (*core.QuotaSnapshot, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if g != nil && g.sem != nil {
		select {
		case g.sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		defer func() { <-g.sem }()
	}

	snapshot, err := fn(ctx)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}

	return g.enforce(ctx, *snapshot)
}

// WaitFor returns how long a caller must wait after observing snapshot.
func (g *QuotaGate) WaitFor(snapshot core.QuotaSnapshot) time.Duration {
	if g.Low(snapshot) {
		return snapshot.ResetIn()
	}
	return 0
}

// Last returns the most recent snapshot seen by the gate.
func (g *QuotaGate) Last() (core.QuotaSnapshot, bool) {
	if g == nil {
		return core.QuotaSnapshot{}, false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return core.QuotaSnapshot{}, false
	}
	return *g.last, true
}

// Low reports whether snapshot is below the gate's threshold.
func (g *QuotaGate) Low(snapshot core.QuotaSnapshot) bool {
	return snapshot.Remaining() < g.threshold()
}

func (g *QuotaGate) enforce(ctx context.Context, snapshot core.QuotaSnapshot) error {
	if g != nil {
		g.mu.Lock()
		g.last = &snapshot
		g.mu.Unlock()
	}

	wait := g.WaitFor(snapshot)
	metrics.RecordQuota(snapshot.Remaining(), wait)

	if wait <= 0 {
		return nil
	}

	if logger := g.logger(); logger != nil {
		logger.Warn("Point budget low, waiting for reset",
			zap.Int64("limit_per_hour", snapshot.LimitPerHour),
			zap.Float64("points_spent", snapshot.PointsSpentThisHour),
			zap.Float64("points_remaining", snapshot.Remaining()),
			zap.Duration("wait", wait))
	}

	return g.sleep(ctx, wait)
}

func (g *QuotaGate) threshold() float64 {
	if g == nil || g.Threshold <= 0 {
		return DefaultQuotaThreshold
	}
	return g.Threshold
}

func (g *QuotaGate) sleep(ctx context.Context, d time.Duration) error {
	if g != nil && g.Sleep != nil {
		return g.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

func (g *QuotaGate) logger() *logging.Logger {
	if g == nil {
		return nil
	}
	return g.Logger
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
