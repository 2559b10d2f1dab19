package storage

import (
	"context"
	"fmt"

	"github.com/yourname/exercisetracker/internal"
	"github.com/yourname/exercisetracker/internal/config"
)

// New opens the backend selected by cfg.DBType.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.DBType {
	case "memory":
		return NewMemoryStorage(), nil
	case "file":
		return NewFileStorage(cfg.FileUsers, cfg.FileExercises, logger)
	case "postgres":
		return NewPostgresStorage(ctx, cfg.DBDSN, logger)
	case "sqlite":
		return NewSQLiteStorage(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
	}
}
