package database

import (
	"database/sql"
	"fmt"

	"github.com/tankmate/tankmate/internal/config"
	_ "modernc.org/sqlite"
)

// NewInMemory creates an in-memory database for tests. Foreign keys are on;
// migrations are not run and WAL is not enabled.
func NewInMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &DB{
		DB:     sqlDB,
		path:   ":memory:",
		config: &config.DatabaseConfig{Path: ":memory:", RecordReports: true},
	}, nil
}
