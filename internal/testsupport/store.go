package testsupport

import (
	"context"
	"testing"

	"fermata/internal/config"
	"fermata/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordDelivery inserts a delivery row for tests using the provided store.
func RecordDelivery(t testing.TB, store *history.Store, entry history.Entry) int64 {
	t.Helper()

	id, err := store.Record(context.Background(), entry)
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return id
}
