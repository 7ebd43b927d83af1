// Package breaker оборачивает хранилище предохранителем (circuit breaker).
//
// Отказом считается только storage.ErrUnavailable: отсутствие записи, конфликт
// ключа и битая запись являются ответами работающего хранилища. Пока предохранитель
// разомкнут, вызовы сразу получают storage.ErrUnavailable, не дожидаясь таймаутов.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sony/gobreaker/v2"

	"github.com/magabrotheeeer/jobhunter/internal/config"
	"github.com/magabrotheeeer/jobhunter/internal/models"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
)

// StateRecorder получает смены состояния предохранителя (например, метрики).
type StateRecorder interface {
	BreakerStateChanged(name, state string)
}

// Store оборачивает хранилище предохранителем.
type Store struct {
	next storage.Store
	cb   *gobreaker.CircuitBreaker[any]
}

var _ storage.Store = (*Store)(nil)

// New оборачивает next предохранителем с настройками из cfg. recorder может быть nil.
func New(next storage.Store, name string, cfg config.CircuitBreaker, log *slog.Logger, recorder StateRecorder) *Store {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, storage.ErrUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("storage circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			if recorder != nil {
				recorder.BreakerStateChanged(name, to.String())
			}
		},
	}
	return &Store{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State возвращает текущее состояние предохранителя.
func (s *Store) State() string {
	return s.cb.State().String()
}

func (s *Store) Upsert(ctx context.Context, rec models.UserRecord) error {
	_, err := s.execute("storage.breaker.Upsert", func() (any, error) {
		return nil, s.next.Upsert(ctx, rec)
	})
	return err
}

func (s *Store) Insert(ctx context.Context, rec models.UserRecord) error {
	_, err := s.execute("storage.breaker.Insert", func() (any, error) {
		return nil, s.next.Insert(ctx, rec)
	})
	return err
}

func (s *Store) Resave(ctx context.Context, email string) error {
	_, err := s.execute("storage.breaker.Resave", func() (any, error) {
		return nil, s.next.Resave(ctx, email)
	})
	return err
}

func (s *Store) Get(ctx context.Context, email string) (*models.UserRecord, error) {
	res, err := s.execute("storage.breaker.Get", func() (any, error) {
		return s.next.Get(ctx, email)
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.UserRecord), nil
}

func (s *Store) ListAll(ctx context.Context) ([]*models.UserRecord, error) {
	res, err := s.execute("storage.breaker.ListAll", func() (any, error) {
		return s.next.ListAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.([]*models.UserRecord), nil
}

// Ping идёт мимо предохранителя: health-check должен видеть реальное состояние.
func (s *Store) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Store) Close() error {
	return s.next.Close()
}

func (s *Store) execute(op string, fn func() (any, error)) (any, error) {
	res, err := s.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
	}
	return res, err
}
