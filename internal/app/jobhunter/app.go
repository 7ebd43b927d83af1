package jobhunter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/jobhunter/internal/cache"
	"github.com/magabrotheeeer/jobhunter/internal/config"
	"github.com/magabrotheeeer/jobhunter/internal/lib/metrics"
	"github.com/magabrotheeeer/jobhunter/internal/lib/sl"
	"github.com/magabrotheeeer/jobhunter/internal/services/trial"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
	"github.com/magabrotheeeer/jobhunter/internal/storage/backend"
)

const shutdownTimeout = 15 * time.Second

// UserCache описывает кеш записей, который приложение закрывает при остановке.
type UserCache interface {
	trial.Cache
	io.Closer
}

type App struct {
	server *http.Server
	logger *slog.Logger
	store  storage.Store
	cache  UserCache
}

// New открывает хранилище и кеш, собирает сервис и маршруты.
// Если адрес redis не задан, кеш не используется.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*App, error) {
	const op = "app.jobhunter.New"

	m := metrics.New(reg)

	store, err := backend.Open(ctx, cfg, logger, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var userCache UserCache = cache.Nop{}
	if cfg.Redis.Address != "" {
		redisCache, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		userCache = redisCache
	} else {
		logger.Info("redis address is empty, cache disabled")
	}

	opts := trial.OptionsFromConfig(cfg)
	opts.Metrics = m
	trialService := trial.NewTrialService(store, userCache, logger, opts)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, Deps{
		Trials:   trialService,
		Store:    store,
		Metrics:  m,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
		cache:  userCache,
	}, nil
}

// Handler возвращает корневой обработчик сервера.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
