package fsops

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blushlabs/resilience/internal/resilience/classify"
	"github.com/blushlabs/resilience/internal/resilience/history"
	"github.com/blushlabs/resilience/internal/resilience/recovery"
)

func newTestStore(t *testing.T) (*Store, *recovery.Handler) {
	t.Helper()
	hist := history.NewLog(100)
	exec := recovery.NewExecutor(recovery.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    10 * time.Millisecond,
	})
	h := recovery.NewHandler(hist, exec, nil)
	return NewStore(t.TempDir(), h), h
}

func TestStore_WriteReadDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Write(ctx, "drafts/post.md", []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := store.Read(ctx, "drafts/post.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("read = %q, want hello", data)
	}

	names, err := store.List(ctx, "drafts")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 || names[0] != "post.md" {
		t.Errorf("list = %v, want [post.md]", names)
	}

	if err := store.Delete(ctx, "drafts/post.md"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Read(ctx, "drafts/post.md"); err == nil {
		t.Error("read after delete should fail")
	}
}

// A write into a directory that does not exist yet is recovered by the
// CreateDirectory strategy; the caller never sees the failure.
func TestStore_WriteIntoMissingDirectory(t *testing.T) {
	store, h := newTestStore(t)
	ctx := context.Background()

	if err := store.Write(ctx, "campaigns/2026/august/plan.json", []byte("{}")); err != nil {
		t.Fatalf("write should have been recovered: %v", err)
	}

	data, err := store.Read(ctx, "campaigns/2026/august/plan.json")
	if err != nil || string(data) != "{}" {
		t.Fatalf("read back: %v", err)
	}

	// The absorbed failure is still on the record.
	entries := h.History(history.Filter{})
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].Code != "ENOENT" {
		t.Errorf("entry code = %q, want ENOENT", entries[0].Code)
	}
}

func TestStore_ReadMissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Read(context.Background(), "nope.txt")
	var enriched *recovery.EnrichedError
	if !errors.As(err, &enriched) {
		t.Fatalf("expected *EnrichedError, got %T: %v", err, err)
	}
	// OS-level ENOENT messages mention the directory, so classification
	// lands on directory-not-found and recovery re-reads exactly once.
	if enriched.Kind != classify.KindDirectoryNotFound && enriched.Kind != classify.KindFileNotFound {
		t.Errorf("kind = %v, want a not-found kind", enriched.Kind)
	}
	if enriched.Recovery.Recovered {
		t.Error("a missing file cannot be recovered by re-reading")
	}
}

func TestCheckDiskSpace(t *testing.T) {
	space := CheckDiskSpace(t.TempDir(), 1)
	if !space.Accessible {
		t.Fatal("temp dir volume should be accessible")
	}
	if !space.SufficientSpace {
		t.Error("temp dir volume should have more than 1 byte free")
	}
	if space.TotalBytes == 0 {
		t.Error("total bytes should be reported")
	}

	missing := CheckDiskSpace("/no/such/mount/point", 0)
	if missing.Accessible {
		t.Error("nonexistent path should be inaccessible")
	}
}
