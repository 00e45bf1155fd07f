package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/horae/internal/db"
)

// TestUserID namespaces the key-value stores built in tests.
const TestUserID = "user-test"

// NewTestDB opens a migrated in-memory SQLite database closed at cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
