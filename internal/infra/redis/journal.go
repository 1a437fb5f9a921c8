package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blushlabs/resilience/internal/resilience/history"
)

const journalKey = "resilience:error_journal"

// DefaultJournalCap bounds the journal list length.
const DefaultJournalCap = 500

// Journal mirrors classified failures into a capped Redis list so the
// dashboard can read recent failures without hitting the service.
type Journal struct {
	client *Client
	maxLen int64
}

// NewJournal creates a journal over an existing client. maxLen of 0 uses
// DefaultJournalCap.
func NewJournal(client *Client, maxLen int64) *Journal {
	if maxLen <= 0 {
		maxLen = DefaultJournalCap
	}
	return &Journal{client: client, maxLen: maxLen}
}

// Record pushes one entry onto the journal and trims it to capacity.
func (j *Journal) Record(ctx context.Context, e history.Entry) error {
	// The stack trace is for local diagnosis; keep the journal compact.
	e.Stack = ""

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	pipe := j.client.rdb.TxPipeline()
	pipe.LPush(ctx, journalKey, data)
	pipe.LTrim(ctx, journalKey, 0, j.maxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push journal entry: %w", err)
	}
	return nil
}

// Recent returns up to n journal entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int64) ([]history.Entry, error) {
	raw, err := j.client.rdb.LRange(ctx, journalKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	entries := make([]history.Entry, 0, len(raw))
	for _, item := range raw {
		var e history.Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
