// Package store persists per-source configuration snapshots and the alert
// log in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/soocke/zone-guard-go/assets"
	"github.com/soocke/zone-guard-go/domain/remote"
)

// TimeLayout is the log timestamp format.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultLogLimit caps how many log entries Logs returns.
const DefaultLogLimit = 100

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, logger: logger, now: time.Now}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrateUp() error {
	src, err := iofs.New(assets.MigrationFiles, assets.MigrationsDir)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{logger: s.logger}
	// m is not closed: closing it would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Config returns the snapshot stored for key, or nil when there is none.
func (s *Store) Config(ctx context.Context, key string) (*remote.Snapshot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT config FROM source_configs WHERE source_key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", key, err)
	}
	var snap remote.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode config %q: %w", key, err)
	}
	return &snap, nil
}

// SaveConfig replaces the snapshot stored for key.
func (s *Store) SaveConfig(ctx context.Context, key string, snap *remote.Snapshot) error {
	if snap == nil {
		return s.ResetConfig(ctx, key)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode config %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO source_configs (source_key, config, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(source_key) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at`,
		key, string(raw), s.now().UTC())
	if err != nil {
		return fmt.Errorf("save config %q: %w", key, err)
	}
	return nil
}

// UpdateConfig loads the snapshot for key (an empty one when absent),
// applies fn and stores the result, which it also returns.
func (s *Store) UpdateConfig(ctx context.Context, key string, fn func(*remote.Snapshot)) (*remote.Snapshot, error) {
	snap, err := s.Config(ctx, key)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &remote.Snapshot{}
	}
	fn(snap)
	if err := s.SaveConfig(ctx, key, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ResetConfig forgets everything stored for key.
func (s *Store) ResetConfig(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM source_configs WHERE source_key = ?`, key); err != nil {
		return fmt.Errorf("reset config %q: %w", key, err)
	}
	return nil
}

// AppendLog records an alert log line for source.
func (s *Store) AppendLog(ctx context.Context, level, message, source string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logs (timestamp, level, message, source) VALUES (?, ?, ?, ?)`,
		s.now().Format(TimeLayout), level, message, source)
	if err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

// Logs returns up to limit entries, newest first. An empty source or "all"
// returns every source.
func (s *Store) Logs(ctx context.Context, limit int, source string) ([]remote.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	query := `SELECT timestamp, level, message FROM logs`
	args := []any{}
	if source != "" && source != "all" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()
	out := []remote.LogEntry{}
	for rows.Next() {
		var e remote.LogEntry
		if err := rows.Scan(&e.Time, &e.Level, &e.Message); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// migrateLogger adapts slog to migrate.Logger.
type migrateLogger struct{ logger *slog.Logger }

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf("[migrate] "+format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }
