package recovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func msec(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func testExecutor(maxAttempts int) *Executor {
	return NewExecutor(RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   msec(1),
		MaxDelay:    msec(10),
	})
}

// =============================================================================
// Retry strategy
// =============================================================================

func TestExecute_Retry_EventualSuccess(t *testing.T) {
	calls := 0
	replay := func(ctx context.Context, path string) (any, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("still failing")
		}
		return "ok", nil
	}

	res := testExecutor(3).Execute(context.Background(), StrategyRetry, Request{Replay: replay, Path: "/x"})
	if !res.Recovered {
		t.Fatal("expected recovery")
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
	if res.Value != "ok" {
		t.Errorf("value = %v, want ok", res.Value)
	}
}

func TestExecute_Retry_Exhaustion(t *testing.T) {
	calls := 0
	lastErr := errors.New("persistent failure")
	replay := func(ctx context.Context, path string) (any, error) {
		calls++
		return nil, lastErr
	}

	res := testExecutor(2).Execute(context.Background(), StrategyRetry, Request{Replay: replay, Path: "/x"})
	if res.Recovered {
		t.Fatal("expected failure")
	}
	if calls != 2 {
		t.Errorf("replay invoked %d times, want exactly 2", calls)
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
	if !errors.Is(res.Err, lastErr) {
		t.Errorf("err = %v, want the last replay error", res.Err)
	}
}

func TestExecute_Retry_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	replay := func(ctx context.Context, path string) (any, error) {
		calls++
		return nil, errors.New("fail")
	}

	res := testExecutor(5).Execute(ctx, StrategyRetry, Request{Replay: replay, Path: "/x"})
	if res.Recovered {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Errorf("replay invoked %d times, want 1 (cancelled before backoff)", calls)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", res.Err)
	}
}

// =============================================================================
// CreateDirectory strategy
// =============================================================================

func TestExecute_CreateDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "deep", "report.csv")

	replay := func(ctx context.Context, path string) (any, error) {
		return nil, os.WriteFile(path, []byte("data"), 0o644)
	}

	res := testExecutor(3).Execute(context.Background(), StrategyCreateDirectory, Request{Replay: replay, Path: target})
	if !res.Recovered {
		t.Fatalf("expected recovery, got err %v", res.Err)
	}

	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Errorf("parent directory should exist: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil || string(data) != "data" {
		t.Errorf("replayed write failed: %v", err)
	}
}

func TestExecute_CreateDirectory_ExistingDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "report.csv")

	replay := func(ctx context.Context, path string) (any, error) {
		return "written", nil
	}

	res := testExecutor(3).Execute(context.Background(), StrategyCreateDirectory, Request{Replay: replay, Path: target})
	if !res.Recovered {
		t.Fatalf("MkdirAll on an existing directory must be idempotent: %v", res.Err)
	}
}

// =============================================================================
// UseAlternativePath strategy
// =============================================================================

func TestExecute_AlternativePath_Missing(t *testing.T) {
	replay := func(ctx context.Context, path string) (any, error) {
		t.Fatal("replay must not run without an alternative path")
		return nil, nil
	}

	res := testExecutor(3).Execute(context.Background(), StrategyUseAlternativePath, Request{Replay: replay, Path: "/x"})
	if res.Recovered {
		t.Error("expected immediate failure")
	}
	if res.Err == nil {
		t.Error("expected an error explaining the missing alternative")
	}
}

func TestExecute_AlternativePath_Substitution(t *testing.T) {
	var seenPath string
	replay := func(ctx context.Context, path string) (any, error) {
		seenPath = path
		return "ok", nil
	}

	res := testExecutor(3).Execute(context.Background(), StrategyUseAlternativePath, Request{
		Replay:          replay,
		Path:            "/primary/x",
		AlternativePath: "/fallback/x",
	})
	if !res.Recovered {
		t.Fatalf("expected recovery, got %v", res.Err)
	}
	if seenPath != "/fallback/x" {
		t.Errorf("replay path = %s, want /fallback/x", seenPath)
	}
}

// =============================================================================
// CleanupAndRetry strategy
// =============================================================================

func TestExecute_CleanupAndRetry_ExistingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "stale.tmp")
	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	var existedAtReplay bool
	replay := func(ctx context.Context, path string) (any, error) {
		_, err := os.Stat(path)
		existedAtReplay = err == nil
		return nil, os.WriteFile(path, []byte("fresh"), 0o644)
	}

	res := testExecutor(3).Execute(context.Background(), StrategyCleanupAndRetry, Request{Replay: replay, Path: target})
	if !res.Recovered {
		t.Fatalf("expected recovery, got %v", res.Err)
	}
	if existedAtReplay {
		t.Error("stale file should have been deleted before replay")
	}
}

func TestExecute_CleanupAndRetry_AbsentFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "never-existed.tmp")

	calls := 0
	replay := func(ctx context.Context, path string) (any, error) {
		calls++
		return "ok", nil
	}

	res := testExecutor(3).Execute(context.Background(), StrategyCleanupAndRetry, Request{Replay: replay, Path: target})
	if !res.Recovered {
		t.Fatalf("not-exist during cleanup must be ignored: %v", res.Err)
	}
	if calls != 1 {
		t.Errorf("replay invoked %d times, want 1", calls)
	}
}

// =============================================================================
// NotifyUser / Skip
// =============================================================================

func TestExecute_NotifyUserAndSkip(t *testing.T) {
	replay := func(ctx context.Context, path string) (any, error) {
		t.Fatal("no remediation may be attempted")
		return nil, nil
	}

	for _, strategy := range []Strategy{StrategyNotifyUser, StrategySkip} {
		res := testExecutor(3).Execute(context.Background(), strategy, Request{Replay: replay, Path: "/x"})
		if res.Success || res.Recovered {
			t.Errorf("%v: expected success=false recovered=false", strategy)
		}
		if res.Strategy != strategy {
			t.Errorf("%v: strategy = %v", strategy, res.Strategy)
		}
	}
}
