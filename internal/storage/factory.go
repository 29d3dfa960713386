package storage

import (
	"context"
	"fmt"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/config"
)

// NewStore opens the backend selected by cfg.DBType.
func NewStore(ctx context.Context, cfg *config.Config, logger internal.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.DBType {
	case "postgres":
		var s *PostgresStorage
		s, err = NewPostgresStorage(ctx, cfg.DBDSN, logger)
		store = s
	case "sqlite":
		var s *SQLiteStorage
		s, err = NewSQLiteStorage(ctx, cfg.SQLitePath, logger)
		store = s
	case "file":
		var s *FileStorage
		s, err = NewFileStorage(cfg.FileEntries, cfg.FileUsers, logger)
		store = s
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
