package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/AdrianDanlos/rythm/internal"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(ctx context.Context, path string, logger internal.Logger) (*SQLiteStorage, error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		logger.Errorf("storage: %v", err)
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		logger.Errorf("storage: %v", err)
		return nil, err
	}
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE name = ?", name).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("start migration tx %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations(name, applied_at) VALUES (?, ?)",
			name, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

const sqliteEntryColumns = `id, user_id, entry_date, sleep_hours, mood, note, tags, is_complete, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteEntry(row rowScanner) (*internal.Entry, error) {
	var (
		e                      internal.Entry
		sleep                  sql.NullFloat64
		mood                   sql.NullInt64
		note, completedAt      sql.NullString
		tags, created, updated string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.EntryDate, &sleep, &mood, &note, &tags,
		&e.IsComplete, &completedAt, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if sleep.Valid {
		e.SleepHours = &sleep.Float64
	}
	if mood.Valid {
		m := int(mood.Int64)
		e.Mood = &m
	}
	if note.Valid {
		e.Note = &note.String
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if completedAt.Valid {
		t, err := time.Parse(sqliteTimeLayout, completedAt.String)
		if err != nil {
			return nil, err
		}
		e.CompletedAt = &t
	}
	if e.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = time.Parse(sqliteTimeLayout, updated); err != nil {
		return nil, err
	}
	return &e, nil
}

// --- EntryRepository ---
func (s *SQLiteStorage) UpsertEntry(ctx context.Context, e *internal.Entry) error {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	var completedAt *string
	if e.CompletedAt != nil {
		v := e.CompletedAt.UTC().Format(sqliteTimeLayout)
		completedAt = &v
	}

	var created string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO entries (id, user_id, entry_date, sleep_hours, mood, note, tags, is_complete, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, entry_date) DO UPDATE SET
			sleep_hours = excluded.sleep_hours,
			mood = excluded.mood,
			note = excluded.note,
			tags = excluded.tags,
			is_complete = excluded.is_complete,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
		RETURNING id, created_at`,
		e.ID, e.UserID, e.EntryDate, e.SleepHours, e.Mood, e.Note, string(encoded), e.IsComplete, completedAt,
		e.CreatedAt.UTC().Format(sqliteTimeLayout), e.UpdatedAt.UTC().Format(sqliteTimeLayout),
	).Scan(&e.ID, &created)
	if err != nil {
		s.logger.Errorf("failed to upsert entry: %v", err)
		return err
	}
	e.CreatedAt, err = time.Parse(sqliteTimeLayout, created)
	return err
}

func (s *SQLiteStorage) GetEntry(ctx context.Context, userID, date string) (*internal.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteEntryColumns+` FROM entries WHERE user_id = ? AND entry_date = ?`, userID, date)
	return scanSQLiteEntry(row)
}

func (s *SQLiteStorage) ListEntries(ctx context.Context, userID string) ([]internal.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteEntryColumns+` FROM entries WHERE user_id = ? ORDER BY entry_date DESC`, userID)
	if err != nil {
		s.logger.Errorf("failed to query entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []internal.Entry{}
	for rows.Next() {
		e, err := scanSQLiteEntry(rows)
		if err != nil {
			s.logger.Errorf("failed to scan entry: %v", err)
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStorage) DeleteEntry(ctx context.Context, userID, date string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE user_id = ? AND entry_date = ?`, userID, date)
	if err != nil {
		s.logger.Errorf("failed to delete entry: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- UserRepository ---
func (s *SQLiteStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	var u internal.User
	err := s.db.QueryRowContext(ctx, `SELECT id, token, name FROM users WHERE token = ?`, token).Scan(&u.ID, &u.Token, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Errorf("user lookup failed: %v", err)
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStorage) SaveUser(ctx context.Context, u *internal.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, token, name) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET token = excluded.token, name = excluded.name`,
		u.ID, u.Token, u.Name)
	if err != nil {
		s.logger.Errorf("failed to save user: %v", err)
	}
	return err
}

// --- Compile-time assertions ---
var _ Store = (*SQLiteStorage)(nil)
