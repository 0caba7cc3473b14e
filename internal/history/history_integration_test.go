package history_test

import (
	"context"
	"testing"

	"fermata/internal/history"
	"fermata/internal/testsupport"
)

func TestStoreOpensFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	id := testsupport.RecordDelivery(t, store, history.Entry{
		URL:       "https://example.com/track/1",
		Filename:  "Artist X - Track Z (Album Y, 2021).flac",
		TierLabel: "cd",
	})
	if id == 0 {
		t.Fatal("expected assigned id")
	}

	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("entries = %+v", entries)
	}
}
