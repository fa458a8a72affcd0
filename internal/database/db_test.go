// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database_test

import (
	"path/filepath"
	"testing"

	"codeberg.org/oliverandrich/multidomain-locale/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := database.Open(":memory:")

	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	require.NoError(t, err)
}

func TestOpen_MigrationsApplied(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int64
	err = db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='domains'")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOpen_FileDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "registry.db")

	db, err := database.Open(dbPath)
	require.NoError(t, err)

	var journalMode string
	require.NoError(t, db.Get(&journalMode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", journalMode)
	require.NoError(t, db.Close())

	// reopening runs no migration twice
	db, err = database.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, database.Close(db))
}

func TestOpen_WithExistingParams(t *testing.T) {
	db, err := database.Open(":memory:?_txlock=immediate")

	require.NoError(t, err)
	require.NoError(t, database.Close(db))
}

func TestMigrateDown(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	require.NoError(t, database.MigrateDown(db.DB))

	var count int64
	require.NoError(t, db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='domains'"))
	assert.Zero(t, count)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, database.Close(nil))
}
