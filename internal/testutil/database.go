// Package testutil provides fixtures and database helpers for tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/tankmate/tankmate/internal/database"
)

// TestDB is an in-memory report history with the schema applied.
type TestDB struct {
	*sql.DB
}

// NewTestDB opens a migrated in-memory report history that is closed
// when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if err := database.Migrate(context.Background(), store); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &TestDB{DB: store.DB}
}

// AssertRowCount asserts the row count for a table.
func (tdb *TestDB) AssertRowCount(t *testing.T, table string, expected int) {
	t.Helper()

	var count int
	if err := tdb.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}

	if count != expected {
		t.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
}
