// Package persistence stores the festival save slot and daily log in SQLite.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-festival/internal/engine"
	"github.com/talgya/mini-festival/internal/state"
)

// Metadata keys written alongside the save slot.
const (
	MetaSavedAt = "saved_at"
	MetaLastDay = "last_day"
)

// DB wraps a SQLite connection holding one save slot.
type DB struct {
	conn *sqlx.DB
	key  string
}

// Open opens or creates a SQLite database at the given path. key names the
// save slot the festival state is stored under.
func Open(path, key string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; SQLite serialises anyway and :memory: databases are per connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, key: key}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS save_slots (
		key TEXT PRIMARY KEY,
		blob BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		date TEXT NOT NULL,
		category TEXT NOT NULL,
		scenario TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_day ON events(day);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveState replaces the save slot with st.
func (db *DB) SaveState(ctx context.Context, st *state.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO save_slots (key, blob, updated_at) VALUES (?, ?, ?)",
		db.key, compress(data), now,
	); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	for k, v := range map[string]string{MetaSavedAt: now, MetaLastDay: strconv.Itoa(st.Day)} {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", k, v,
		); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	return tx.Commit()
}

// LoadState reads the save slot and decodes it on top of defaults. A missing
// slot reports false; a blob that cannot be decoded wraps engine.ErrCorruptSave.
func (db *DB) LoadState(ctx context.Context, defaults *state.State) (*state.State, bool, error) {
	var blob []byte
	err := db.conn.GetContext(ctx, &blob, "SELECT blob FROM save_slots WHERE key = ?", db.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state: %w", err)
	}

	data, err := decompress(blob)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", engine.ErrCorruptSave, err)
	}
	st, filled, err := state.Decode(data, defaults)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", engine.ErrCorruptSave, err)
	}
	if len(filled) > 0 {
		slog.Info("migrated saved state", "key", db.key, "backfilled", filled)
	}
	return st, true, nil
}

// ClearState deletes the save slot.
func (db *DB) ClearState(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "DELETE FROM save_slots WHERE key = ?", db.key); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

// SaveEvents appends events to the daily log.
func (db *DB) SaveEvents(ctx context.Context, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO events (day, date, category, scenario, description)
			 VALUES (:day, :date, :category, :scenario, :description)`,
			e,
		)
		if err != nil {
			return fmt.Errorf("insert event day %d: %w", e.Day, err)
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(ctx context.Context, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.SelectContext(ctx, &events,
		"SELECT day, date, category, scenario, description FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in the metadata table.
func (db *DB) SaveMeta(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.GetContext(ctx, &value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

var _ engine.Store = (*DB)(nil)
