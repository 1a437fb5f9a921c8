package recovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/blushlabs/resilience/internal/resilience/metrics"
)

// ReplayFunc re-invokes the original operation against the given path.
type ReplayFunc func(ctx context.Context, path string) (any, error)

// Request carries everything the executor needs to attempt a remediation,
// plus caller-supplied context recorded alongside the failure.
type Request struct {
	Replay          ReplayFunc
	Path            string
	AlternativePath string
	Context         map[string]string
}

// Result is the tagged outcome of a recovery execution. Value and Err are
// never both set.
type Result struct {
	Success   bool     `json:"success"`
	Recovered bool     `json:"recovered"`
	Strategy  Strategy `json:"strategy"`
	Attempts  int      `json:"attempts,omitempty"`
	Value     any      `json:"-"`
	Err       error    `json:"-"`
}

// Executor performs strategy-specific remediation.
type Executor struct {
	cfg RetryConfig
}

// NewExecutor creates an executor with the given backoff configuration.
// Zero fields fall back to DefaultRetryConfig.
func NewExecutor(cfg RetryConfig) *Executor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultRetryConfig.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultRetryConfig.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultRetryConfig.MaxDelay
	}
	return &Executor{cfg: cfg}
}

// Execute runs the remediation for the given strategy and reports the
// outcome. NotifyUser and Skip perform no remediation: they signal "surface
// to the caller", not "fix and continue".
func (e *Executor) Execute(ctx context.Context, strategy Strategy, req Request) Result {
	res := e.execute(ctx, strategy, req)
	outcome := "failed"
	if res.Recovered {
		outcome = "recovered"
	}
	metrics.Recoveries.WithLabelValues(strategy.String(), outcome).Inc()
	return res
}

func (e *Executor) execute(ctx context.Context, strategy Strategy, req Request) Result {
	switch strategy {
	case StrategyRetry:
		return e.executeRetry(ctx, req)
	case StrategyCreateDirectory:
		return e.executeCreateDirectory(ctx, req)
	case StrategyUseAlternativePath:
		return e.executeAlternativePath(ctx, req)
	case StrategyCleanupAndRetry:
		return e.executeCleanupAndRetry(ctx, req)
	default:
		return Result{Success: false, Recovered: false, Strategy: strategy}
	}
}

// executeRetry replays the operation up to MaxAttempts times with capped
// exponential backoff. No jitter: local filesystem contention is low and
// deterministic tests are valued.
func (e *Executor) executeRetry(ctx context.Context, req Request) Result {
	var lastErr error

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		metrics.RecoveryAttempts.WithLabelValues(StrategyRetry.String()).Inc()
		value, err := req.Replay(ctx, req.Path)
		if err == nil {
			return Result{
				Success:   true,
				Recovered: true,
				Strategy:  StrategyRetry,
				Attempts:  attempt,
				Value:     value,
			}
		}
		lastErr = err

		if attempt == e.cfg.MaxAttempts {
			break
		}

		delay := backoffDelay(attempt, e.cfg.BaseDelay, e.cfg.MaxDelay)
		select {
		case <-ctx.Done():
			return Result{
				Success:   false,
				Recovered: false,
				Strategy:  StrategyRetry,
				Attempts:  attempt,
				Err:       ctx.Err(),
			}
		case <-time.After(delay):
		}
	}

	return Result{
		Success:   false,
		Recovered: false,
		Strategy:  StrategyRetry,
		Attempts:  e.cfg.MaxAttempts,
		Err:       lastErr,
	}
}

// executeCreateDirectory recursively creates the parent directory of the
// target path, then replays the operation once. MkdirAll is idempotent if
// the directory already exists.
func (e *Executor) executeCreateDirectory(ctx context.Context, req Request) Result {
	dir := filepath.Dir(req.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{
			Success:   false,
			Recovered: false,
			Strategy:  StrategyCreateDirectory,
			Err:       fmt.Errorf("create directory %s: %w", dir, err),
		}
	}
	return e.replayOnce(ctx, StrategyCreateDirectory, req.Replay, req.Path)
}

func (e *Executor) executeAlternativePath(ctx context.Context, req Request) Result {
	if req.AlternativePath == "" {
		return Result{
			Success:   false,
			Recovered: false,
			Strategy:  StrategyUseAlternativePath,
			Err:       errors.New("no alternative path supplied"),
		}
	}
	return e.replayOnce(ctx, StrategyUseAlternativePath, req.Replay, req.AlternativePath)
}

// executeCleanupAndRetry deletes the target file, ignoring a not-exist
// outcome, then replays the operation once. Any other deletion error aborts
// the strategy.
func (e *Executor) executeCleanupAndRetry(ctx context.Context, req Request) Result {
	if err := os.Remove(req.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Result{
			Success:   false,
			Recovered: false,
			Strategy:  StrategyCleanupAndRetry,
			Err:       fmt.Errorf("cleanup %s: %w", req.Path, err),
		}
	}
	return e.replayOnce(ctx, StrategyCleanupAndRetry, req.Replay, req.Path)
}

func (e *Executor) replayOnce(ctx context.Context, strategy Strategy, replay ReplayFunc, path string) Result {
	metrics.RecoveryAttempts.WithLabelValues(strategy.String()).Inc()
	value, err := replay(ctx, path)
	if err != nil {
		return Result{
			Success:   false,
			Recovered: false,
			Strategy:  strategy,
			Attempts:  1,
			Err:       err,
		}
	}
	return Result{
		Success:   true,
		Recovered: true,
		Strategy:  strategy,
		Attempts:  1,
		Value:     value,
	}
}

// backoffDelay calculates BaseDelay * 2^(attempt-1), capped at max.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	delay := float64(base) * math.Pow(2, float64(attempt-1))
	if delay > float64(max) {
		return max
	}
	return time.Duration(delay)
}
