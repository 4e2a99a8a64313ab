package storage

import (
	"context"
	"database/sql"
	"fmt"

	// registers the pure Go "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	wins       INTEGER NOT NULL DEFAULT 0,
	losses     INTEGER NOT NULL DEFAULT 0,
	draws      INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	player_id  TEXT NOT NULL,
	board      TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	version    INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS games_player_id ON games (player_id);
`

type Storage struct {
	Connection *sql.DB
}

func NewSQLiteStorage(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	// one connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

// Init - creates tables when they are missing.
func (that *Storage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("can't set WAL mode: %w", err)
	}

	if _, err := that.Connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create tables: %w", err)
	}

	return nil
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}
