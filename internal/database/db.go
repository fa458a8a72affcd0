// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package database opens the SQLite domain registry.
package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vinovest/sqlx"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// defaultParams are appended to every DSN unless already present.
var defaultParams = []string{
	"_txlock=immediate",
	"_pragma=busy_timeout(5000)",
	"_pragma=foreign_keys(1)",
}

// Open creates a new database connection and applies pending migrations.
func Open(dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		dsn = "./data/registry.db"
	}

	memory := isMemory(dsn)
	if !memory {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return nil, err
		}
	}

	conn, err := sqlx.Open("sqlite", addDefaultParams(dsn))
	if err != nil {
		return nil, err
	}

	if memory {
		// every connection would get its own empty database
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(4)
		conn.SetMaxIdleConns(2)
		conn.SetConnMaxLifetime(time.Hour)
	}

	ctx := context.Background()
	if err := configureSQLite(ctx, conn, memory); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := RunMigrations(conn.DB); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

// Close closes the database.
func Close(db *sqlx.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// addDefaultParams adds recommended SQLite parameters if not already present.
func addDefaultParams(dsn string) string {
	for _, param := range defaultParams {
		if strings.Contains(dsn, param) {
			continue
		}
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + param
	}
	return dsn
}

func configureSQLite(ctx context.Context, db *sqlx.DB, memory bool) error {
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return err
		}
	}
	return nil
}
