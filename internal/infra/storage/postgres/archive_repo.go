package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blushlabs/resilience/internal/resilience/classify"
	"github.com/blushlabs/resilience/internal/resilience/history"
)

// ArchiveRepo implements storage.ErrorArchive using PostgreSQL.
type ArchiveRepo struct {
	db *DB
}

// NewArchiveRepo creates a new PostgreSQL error archive.
func NewArchiveRepo(db *DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

type entryRow struct {
	ID        string    `db:"id"`
	Ts        time.Time `db:"ts"`
	Operation string    `db:"operation"`
	Path      string    `db:"path"`
	Kind      string    `db:"kind"`
	Code      string    `db:"code"`
	Message   string    `db:"message"`
	Context   []byte    `db:"context"`
}

// Record persists one error-log entry. Stack traces stay local; the archive
// keeps the classified facts the dashboard aggregates.
func (r *ArchiveRepo) Record(ctx context.Context, e history.Entry) error {
	var contextJSON []byte
	if len(e.Context) > 0 {
		var err error
		contextJSON, err = json.Marshal(e.Context)
		if err != nil {
			return fmt.Errorf("failed to marshal entry context: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO error_log (id, ts, operation, path, kind, code, message, context)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Timestamp, e.Operation, e.Path, e.Kind.String(), e.Code, e.Message, contextJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to archive entry: %w", err)
	}
	return nil
}

// Recent returns the most recent archived entries, newest first.
func (r *ArchiveRepo) Recent(ctx context.Context, limit int) ([]history.Entry, error) {
	var rows []entryRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, ts, operation, path, kind, code, message, context
		 FROM error_log ORDER BY ts DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}

	entries := make([]history.Entry, 0, len(rows))
	for _, row := range rows {
		kind, _ := classify.ParseKind(row.Kind)
		e := history.Entry{
			ID:        row.ID,
			Timestamp: row.Ts,
			Operation: row.Operation,
			Path:      row.Path,
			Kind:      kind,
			Code:      row.Code,
			Message:   row.Message,
		}
		if len(row.Context) > 0 {
			_ = json.Unmarshal(row.Context, &e.Context)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// CountByKind aggregates archived entries per kind since a point in time.
func (r *ArchiveRepo) CountByKind(ctx context.Context, since time.Time) (map[string]int, error) {
	var rows []struct {
		Kind  string `db:"kind"`
		Count int    `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT kind, COUNT(*) AS count FROM error_log WHERE ts >= $1 GROUP BY kind`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate archive: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}
