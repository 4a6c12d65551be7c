// Package testutil provides test helpers for storage-backed tests.
package testutil

import (
	"context"
	"testing"

	"github.com/medassort/taxon/internal/storage"
)

// TestDB wraps an in-memory storage instance for tests.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database with migrations
// applied and cleanup registered.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SetupSeededTestDB creates an in-memory test database loaded with the
// demo fixture.
func SetupSeededTestDB(t *testing.T) *TestDB {
	t.Helper()

	db := SetupTestDB(t)
	if err := db.Storage.SeedDemoData(context.Background()); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}
	return db
}
