package storage

import (
	"context"
	"errors"

	"github.com/AdrianDanlos/rythm/internal"
)

var ErrNotFound = errors.New("storage: not found")

// EntryRepository stores at most one entry per (user, date).
type EntryRepository interface {
	// UpsertEntry inserts or replaces the entry for e.UserID and e.EntryDate.
	// On replace, the stored ID and CreatedAt are kept and copied back into e.
	UpsertEntry(ctx context.Context, e *internal.Entry) error
	GetEntry(ctx context.Context, userID, date string) (*internal.Entry, error)
	// ListEntries returns the user's entries, newest date first.
	ListEntries(ctx context.Context, userID string) ([]internal.Entry, error)
	DeleteEntry(ctx context.Context, userID, date string) error
}

type UserRepository interface {
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
	SaveUser(ctx context.Context, u *internal.User) error
}

type Store interface {
	EntryRepository
	UserRepository
	Close() error
}
