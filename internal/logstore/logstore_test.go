package logstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/triagestack/triage-engine/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "logs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndFetchBatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []models.LogEntry{
		{Timestamp: "2025-06-20T01:00:00Z", Severity: "ERROR", Message: "database connection timeout", AgentID: "agent-1"},
		{Timestamp: "2025-06-20T02:00:00Z", Severity: "WARN", Message: "response time 2100ms", AgentID: "agent-2"},
	}
	if err := store.InsertLogs(ctx, entries); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.FetchBatch(ctx, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), 100)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Message != "database connection timeout" {
		t.Fatalf("unexpected first entry %q", got[0].Message)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestFetchBatchSinceFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []models.LogEntry{
		{Timestamp: "2025-06-20T01:00:00Z", Message: "old entry"},
		{Timestamp: "2025-06-20T03:00:00Z", Message: "new entry"},
	}
	if err := store.InsertLogs(ctx, entries); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.FetchBatch(ctx, time.Date(2025, 6, 20, 2, 0, 0, 0, time.UTC), 100)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].Message != "new entry" {
		t.Fatalf("expected only the new entry, got %v", got)
	}
}

func TestInsertEmptyBatchIsNoop(t *testing.T) {
	store := openTestStore(t)
	if err := store.InsertLogs(context.Background(), nil); err != nil {
		t.Fatalf("empty insert: %v", err)
	}
}
