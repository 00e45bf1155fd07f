package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A database written before the revision column existed keeps its rows and
// gains the column with its default.
func TestMigrate_UpgradePath_AddsRevisionColumn(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE kv_entries (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv_entries (key, value, updated_at) VALUES ('u1:reminders', '[]', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var value string
	var revision int
	err = db.QueryRow(`SELECT value, revision FROM kv_entries WHERE key = 'u1:reminders'`).Scan(&value, &revision)
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
	assert.Equal(t, 1, revision)

	require.NoError(t, Migrate(db), "second run tolerates the duplicate column")
}
