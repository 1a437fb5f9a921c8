package recovery

import (
	"fmt"

	"github.com/blushlabs/resilience/internal/resilience/classify"
)

// EnrichedError is the structured failure surfaced when recovery was
// declined or failed. It always carries the original cause; callers never
// see a bare re-throw of the raw platform error.
type EnrichedError struct {
	Kind     classify.Kind
	Message  classify.UserMessage
	Strategy Strategy
	Recovery Result
	Err      error
}

func (e *EnrichedError) Error() string {
	return fmt.Sprintf("%s (strategy %s, recovered=%t): %v",
		e.Kind, e.Strategy, e.Recovery.Recovered, e.Err)
}

func (e *EnrichedError) Unwrap() error {
	return e.Err
}
