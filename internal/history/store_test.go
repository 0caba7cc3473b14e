package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, Entry{
		URL:         "https://example.com/track/1",
		Requester:   "alice",
		Title:       "Track Z",
		Filename:    "Artist X - Track Z (Album Y, 2021).flac",
		TierLabel:   "cd",
		SizeBytes:   42 << 20,
		DeliveredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if first == 0 {
		t.Fatal("expected non-zero id")
	}

	if _, err := store.Record(ctx, Entry{
		URL:         "https://example.com/track/2",
		Filename:    "Later Track.mp3",
		TierLabel:   "mp3-320",
		Transcoded:  true,
		DeliveredAt: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("record second: %v", err)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Filename != "Later Track.mp3" {
		t.Fatalf("newest first, got %q", entries[0].Filename)
	}
	if !entries[0].Transcoded {
		t.Fatal("transcoded flag lost")
	}
	if entries[1].Requester != "alice" {
		t.Fatalf("requester = %q", entries[1].Requester)
	}
	if !entries[1].DeliveredAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("delivered_at = %v", entries[1].DeliveredAt)
	}
}

func TestListHonoursLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := store.Record(ctx, Entry{URL: "u", Filename: "f", TierLabel: "cd"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	entries, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d", len(entries))
	}
}

func TestClearRemovesEverything(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.Record(ctx, Entry{URL: "u", Filename: "f", TierLabel: "cd"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d after clear", len(entries))
	}
}

func TestReopenVerifiesSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := OpenPath(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopened, err := OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = reopened.Close()
}
