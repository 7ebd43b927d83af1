// Package scheduler запускает периодические задачи: публикацию напоминаний
// об окончании пробного периода и плановое пересохранение записей.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/jobhunter/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jobhunter/internal/lib/sl"
	"github.com/magabrotheeeer/jobhunter/internal/models"
)

// TrialService описывает операции пробного периода, которые нужны планировщику.
type TrialService interface {
	Expiring(ctx context.Context, window time.Duration) ([]models.TrialNotification, error)
	Sweep(ctx context.Context) (int, error)
}

// Recorder учитывает отправленные напоминания.
type Recorder interface {
	ReminderPublished()
}

// SchedulerService публикует напоминания в RabbitMQ и запускает обслуживание хранилища.
//
// Пробный период попадает в окно напоминаний на нескольких тиках подряд, поэтому
// сервис помнит уже опубликованные пары email и дата окончания и не шлёт их повторно.
// Повторная регистрация меняет дату окончания и даёт новое напоминание.
type SchedulerService struct {
	trials  TrialService
	channel rabbitmq.Channel
	log     *slog.Logger
	metrics Recorder

	mu       sync.Mutex
	notified map[string]time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService. metrics может быть nil.
func NewSchedulerService(trials TrialService, channel rabbitmq.Channel, log *slog.Logger, metrics Recorder) *SchedulerService {
	return &SchedulerService{
		trials:   trials,
		channel:  channel,
		log:      log,
		metrics:  metrics,
		notified: map[string]time.Time{},
	}
}

// PublishExpiring публикует уведомления о пробных периодах, которые закончатся
// в течение window и ещё не были опубликованы. Возвращает число опубликованных сообщений.
func (s *SchedulerService) PublishExpiring(ctx context.Context, window time.Duration) (int, error) {
	const op = "services.scheduler.PublishExpiring"

	notes, err := s.trials.Expiring(ctx, window)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Записи, выпавшие из окна, больше не придут: забываем их.
	current := make(map[string]struct{}, len(notes))
	for _, note := range notes {
		current[note.Email] = struct{}{}
	}
	for addr := range s.notified {
		if _, ok := current[addr]; !ok {
			delete(s.notified, addr)
		}
	}

	pending := make([]models.TrialNotification, 0, len(notes))
	for _, note := range notes {
		if sent, ok := s.notified[note.Email]; ok && sent.Equal(note.TrialExpires) {
			continue
		}
		pending = append(pending, note)
	}
	if len(pending) == 0 {
		s.log.Info("no new expiring trials found")
		return 0, nil
	}
	s.log.Info("found expiring trials", slog.Int("count", len(pending)))

	published := 0
	for _, note := range pending {
		err := rabbitmq.PublishMessage(s.channel, rabbitmq.ExchangeNotifications, rabbitmq.RoutingKeyTrialExpiring, note)
		if err != nil {
			s.log.Error("failed to publish message", sl.Email(note.Email), sl.Err(err))
			continue
		}
		s.notified[note.Email] = note.TrialExpires
		published++
		if s.metrics != nil {
			s.metrics.ReminderPublished()
		}
	}
	return published, nil
}

// RunReminders публикует напоминания сразу и затем каждые interval, пока не отменён ctx.
func (s *SchedulerService) RunReminders(ctx context.Context, interval, window time.Duration) {
	every(ctx, interval, func() {
		if _, err := s.PublishExpiring(ctx, window); err != nil {
			s.log.Error("failed to publish trial reminders", sl.Err(err))
		}
	})
}

// RunSweep пересохраняет записи сразу и затем каждые interval, пока не отменён ctx.
// Нулевой interval означает однократный запуск.
func (s *SchedulerService) RunSweep(ctx context.Context, interval time.Duration) {
	every(ctx, interval, func() {
		if _, err := s.trials.Sweep(ctx); err != nil {
			s.log.Error("sweep failed", sl.Err(err))
		}
	})
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	if ctx.Err() != nil {
		return
	}
	fn()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
