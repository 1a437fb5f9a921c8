// Package storage defines the persistence interfaces for error-log entries
// flowing out of the resilience core to dashboard collaborators.
package storage

import (
	"context"
	"time"

	"github.com/blushlabs/resilience/internal/resilience/history"
)

// ErrorArchive persists classified failures for long-term diagnosis. The
// in-memory history stays authoritative for the core; the archive is a
// best-effort copy the dashboard aggregates from.
type ErrorArchive interface {
	// Record persists one error-log entry
	Record(ctx context.Context, e history.Entry) error

	// Recent returns the most recent archived entries, newest first
	Recent(ctx context.Context, limit int) ([]history.Entry, error)

	// CountByKind aggregates archived entries per kind since a point in time
	CountByKind(ctx context.Context, since time.Time) (map[string]int, error)
}
