package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/magabrotheeeer/jobhunter/internal/cache"
	"github.com/magabrotheeeer/jobhunter/internal/config"
	"github.com/magabrotheeeer/jobhunter/internal/services/trial"
	"github.com/magabrotheeeer/jobhunter/internal/storage/backend"
)

// closers закрывает ресурсы в обратном порядке.
type closers []io.Closer

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenService используется как Opener по умолчанию: хранилище и кеш из конфига, без метрик.
// Кеш подключается, чтобы изменения из утилиты не расходились с API.
func OpenService(ctx context.Context, configPath string, log *slog.Logger) (Service, io.Closer, error) {
	const op = "cli.OpenService"

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	store, err := backend.Open(ctx, cfg, log, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	res := closers{store}

	var userCache trial.Cache = cache.Nop{}
	if cfg.Redis.Address != "" {
		redisCache, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			_ = res.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		userCache = redisCache
		res = append(res, redisCache)
	}

	return trial.NewTrialService(store, userCache, log, trial.OptionsFromConfig(cfg)), res, nil
}
