// Package recovery selects and executes remediation strategies for
// classified failures, and wraps fallible operations so recoverable
// failures are absorbed transparently.
package recovery

import (
	"encoding/json"
	"time"

	"github.com/blushlabs/resilience/internal/resilience/classify"
)

// Operation identifies the kind of operation that failed.
type Operation string

const (
	OpRead   Operation = "read"
	OpWrite  Operation = "write"
	OpDelete Operation = "delete"
	OpStat   Operation = "stat"
	OpList   Operation = "list"
)

// Strategy is the remediation approach for a classified failure.
type Strategy int

const (
	StrategyRetry Strategy = iota
	StrategyCreateDirectory
	StrategyUseAlternativePath
	StrategyCleanupAndRetry
	StrategyNotifyUser
	StrategySkip
)

func (s Strategy) String() string {
	switch s {
	case StrategyRetry:
		return "retry"
	case StrategyCreateDirectory:
		return "create_directory"
	case StrategyUseAlternativePath:
		return "use_alternative_path"
	case StrategyCleanupAndRetry:
		return "cleanup_and_retry"
	case StrategyNotifyUser:
		return "notify_user"
	default:
		return "skip"
	}
}

// MarshalJSON encodes the strategy as its string name.
func (s Strategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Select maps a classified failure and the operation kind to a strategy.
// Pure table lookup; only FileNotFound is sensitive to the operation kind.
func Select(kind classify.Kind, op Operation) Strategy {
	switch kind {
	case classify.KindPermissionDenied, classify.KindDiskFull, classify.KindUnknown:
		return StrategyNotifyUser
	case classify.KindFileNotFound:
		if op == OpWrite {
			return StrategyCreateDirectory
		}
		return StrategySkip
	case classify.KindDirectoryNotFound:
		return StrategyCreateDirectory
	case classify.KindInvalidPath:
		return StrategySkip
	case classify.KindFileLocked, classify.KindIoError:
		return StrategyRetry
	default:
		return StrategyNotifyUser
	}
}

// RetryConfig defines backoff behavior for the file-system Retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig provides sensible defaults for local filesystem retries.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   1 * time.Second,
	MaxDelay:    10 * time.Second,
}
