// Package backend выбирает реализацию хранилища по конфигу и оборачивает её предохранителем.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/jobhunter/internal/config"
	"github.com/magabrotheeeer/jobhunter/internal/migrations"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
	"github.com/magabrotheeeer/jobhunter/internal/storage/breaker"
	"github.com/magabrotheeeer/jobhunter/internal/storage/filestore"
	"github.com/magabrotheeeer/jobhunter/internal/storage/postgresql"
)

// Сколько ждать таблицу users, если миграции применяет другой процесс.
const (
	readyAttempts = 10
	readyDelay    = 3 * time.Second
)

// Open открывает хранилище, заданное cfg.Storage.Driver. Для PostgreSQL
// перед работой применяются миграции, а при пустом migrations_path
// Open ждёт, пока их применит другой процесс.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger, recorder breaker.StateRecorder) (storage.Store, error) {
	const op = "storage.backend.Open"

	var store storage.Store
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := postgresql.New(ctx, cfg.Storage.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cfg.Storage.MigrationsPath != "" {
			err = migrations.Run(db.DB, cfg.Storage.MigrationsPath)
		} else {
			err = db.Ready(readyAttempts, readyDelay)
		}
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = db
	case config.StorageDriverFile:
		fs, err := filestore.New(cfg.Storage.FilePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = fs
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}

	log.Info("storage opened", slog.String("driver", cfg.Storage.Driver))

	if cfg.CircuitBreaker.Disabled {
		return store, nil
	}
	return breaker.New(store, "users-"+cfg.Storage.Driver, cfg.CircuitBreaker, log, recorder), nil
}
