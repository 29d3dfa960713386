package api

import (
	"context"
	"io"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/service"
	"github.com/AdrianDanlos/rythm/internal/stats"
)

// Service is what the handlers need from the service layer.
type Service interface {
	UpsertEntry(ctx context.Context, user *internal.User, date string, body *service.EntryRequest) (*internal.Entry, error)
	GetEntry(ctx context.Context, user *internal.User, date string) (*internal.Entry, error)
	ListEntries(ctx context.Context, user *internal.User) ([]internal.Entry, error)
	DeleteEntry(ctx context.Context, user *internal.User, date string) error
	Stats(ctx context.Context, user *internal.User, threshold *float64) (*stats.Result, error)
	Badges(ctx context.Context, user *internal.User) ([]stats.Badge, error)
	Motivation(ctx context.Context, user *internal.User) (stats.MotivationMessage, error)
	Export(ctx context.Context, user *internal.User, w io.Writer) error
	Import(ctx context.Context, user *internal.User, r io.Reader) (int, error)
}

type App interface {
	Logger() internal.Logger
	Service() Service
}

var _ Service = (*service.Service)(nil)
