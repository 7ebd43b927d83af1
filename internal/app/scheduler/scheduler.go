// Package scheduler собирает приложение планировщика: напоминания об окончании
// пробного периода и плановое обслуживание хранилища.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/jobhunter/internal/cache"
	"github.com/magabrotheeeer/jobhunter/internal/config"
	"github.com/magabrotheeeer/jobhunter/internal/lib/metrics"
	"github.com/magabrotheeeer/jobhunter/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jobhunter/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/jobhunter/internal/services/scheduler"
	"github.com/magabrotheeeer/jobhunter/internal/services/trial"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
	"github.com/magabrotheeeer/jobhunter/internal/storage/backend"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	store            storage.Store
	conn             *amqp.Connection
	ch               *amqp.Channel
	cfg              config.Scheduler
	logger           *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	m := metrics.New(reg)

	store, err := backend.Open(ctx, cfg, logger, m)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		closeResources(nil, nil, store, logger)
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		closeResources(nil, conn, store, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	// Планировщик читает записи пачкой и пишет их же обратно, кеш ему не нужен.
	opts := trial.OptionsFromConfig(cfg)
	opts.Metrics = m
	trialService := trial.NewTrialService(store, cache.Nop{}, logger, opts)

	return &App{
		schedulerService: schedulerservice.NewSchedulerService(trialService, ch, logger, m),
		store:            store,
		conn:             conn,
		ch:               ch,
		cfg:              cfg.Scheduler,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, store storage.Store, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", sl.Err(err))
		}
	}
}

// Run запускает периодические задачи и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	done := make(chan struct{}, 2)
	go func() {
		a.schedulerService.RunReminders(ctx, a.cfg.ReminderInterval, a.cfg.ReminderWindow)
		done <- struct{}{}
	}()
	go func() {
		a.schedulerService.RunSweep(ctx, a.cfg.SweepInterval)
		done <- struct{}{}
	}()

	<-ctx.Done()
	<-done
	<-done

	a.logger.Info("shutting down scheduler service")
	closeResources(a.ch, a.conn, a.store, a.logger)

	return nil
}
