package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AdrianDanlos/rythm/internal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id    TEXT PRIMARY KEY,
	token TEXT NOT NULL UNIQUE,
	name  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS entries (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	entry_date   DATE NOT NULL,
	sleep_hours  DOUBLE PRECISION,
	mood         INTEGER,
	note         TEXT,
	tags         TEXT[] NOT NULL DEFAULT '{}',
	is_complete  BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, entry_date)
);`

const entryColumns = `id, user_id, to_char(entry_date, 'YYYY-MM-DD'), sleep_hours, mood, note, tags, is_complete, completed_at, created_at, updated_at`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		logger.Errorf("failed to apply postgres schema: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func scanEntry(row pgx.Row) (*internal.Entry, error) {
	var e internal.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.EntryDate, &e.SleepHours, &e.Mood, &e.Note, &e.Tags,
		&e.IsComplete, &e.CompletedAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// --- EntryRepository ---
func (p *PostgresStorage) UpsertEntry(ctx context.Context, e *internal.Entry) error {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	row := p.pool.QueryRow(ctx, `
		INSERT INTO entries (id, user_id, entry_date, sleep_hours, mood, note, tags, is_complete, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, entry_date) DO UPDATE SET
			sleep_hours = EXCLUDED.sleep_hours,
			mood = EXCLUDED.mood,
			note = EXCLUDED.note,
			tags = EXCLUDED.tags,
			is_complete = EXCLUDED.is_complete,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		e.ID, e.UserID, e.EntryDate, e.SleepHours, e.Mood, e.Note, tags, e.IsComplete, e.CompletedAt, e.CreatedAt, e.UpdatedAt)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		p.logger.Errorf("failed to upsert entry: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetEntry(ctx context.Context, userID, date string) (*internal.Entry, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE user_id = $1 AND entry_date = $2::date`, userID, date)
	e, err := scanEntry(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		p.logger.Errorf("failed to get entry: %v", err)
	}
	return e, err
}

func (p *PostgresStorage) ListEntries(ctx context.Context, userID string) ([]internal.Entry, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+entryColumns+` FROM entries WHERE user_id = $1 ORDER BY entry_date DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []internal.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			p.logger.Errorf("failed to scan entry: %v", err)
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (p *PostgresStorage) DeleteEntry(ctx context.Context, userID, date string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM entries WHERE user_id = $1 AND entry_date = $2::date`, userID, date)
	if err != nil {
		p.logger.Errorf("failed to delete entry: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- UserRepository ---
func (p *PostgresStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, token, name FROM users WHERE token = $1`, token)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("user lookup failed: %v", err)
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) SaveUser(ctx context.Context, u *internal.User) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO users (id, token, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, name = EXCLUDED.name`,
		u.ID, u.Token, u.Name)
	if err != nil {
		p.logger.Errorf("failed to save user: %v", err)
	}
	return err
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStorage)(nil)
