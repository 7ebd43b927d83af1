// Package filestore реализует хранилище записей пользователей в одном JSON-файле.
//
// Файл содержит объект email -> запись. Каждая запись перезаписывает файл целиком
// через временный файл и rename, поэтому читатель никогда не видит файл наполовину.
// Чтение-изменение-запись идёт под межпроцессной блокировкой на файле path+".lock":
// API, планировщик и CLI могут работать с одним файлом одновременно.
// Даты читаются как в RFC 3339, так и в наивном ISO-формате без зоны (считается UTC).
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/magabrotheeeer/jobhunter/internal/models"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
)

// legacyLayouts: форматы дат без зоны, которые встречаются в старых файлах.
var legacyLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// Интервал повторной попытки взять файловую блокировку.
const lockRetryDelay = 5 * time.Millisecond

// Storage хранит записи в JSON-файле. Безопасно для конкурентного использования
// как внутри процесса, так и из нескольких процессов.
type Storage struct {
	path string
	mu   sync.RWMutex
}

// fileRecord описывает запись в файле. Даты хранятся строками,
// чтобы битое значение в одной записи не ломало чтение всего файла.
type fileRecord struct {
	Email              string   `json:"email"`
	JobKeywords        []string `json:"job_keywords"`
	Country            string   `json:"country"`
	SignupDate         string   `json:"signup_date"`
	TrialExpires       string   `json:"trial_expires"`
	SubscriptionStatus string   `json:"subscription_status"`
}

// New создаёт хранилище и, если файла нет, создаёт пустой.
func New(path string) (*Storage, error) {
	const op = "storage.filestore.New"

	s := &Storage{path: path}
	err := s.locked(context.Background(), true, func() error {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return s.save(map[string]fileRecord{})
		} else if err != nil {
			return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Upsert вставляет запись или целиком заменяет существующую.
func (s *Storage) Upsert(ctx context.Context, rec models.UserRecord) error {
	const op = "storage.filestore.Upsert"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.locked(ctx, true, func() error {
		users, err := s.load()
		if err != nil {
			return err
		}
		users[rec.Email] = toFile(rec)
		return s.save(users)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Resave перечитывает текущую запись под блокировкой и сохраняет её без изменений.
func (s *Storage) Resave(ctx context.Context, email string) error {
	const op = "storage.filestore.Resave"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.locked(ctx, true, func() error {
		users, err := s.load()
		if err != nil {
			return err
		}
		if _, ok := users[email]; !ok {
			return storage.ErrNotFound
		}
		return s.save(users)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Insert вставляет запись, только если email ещё не занят.
func (s *Storage) Insert(ctx context.Context, rec models.UserRecord) error {
	const op = "storage.filestore.Insert"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.locked(ctx, true, func() error {
		users, err := s.load()
		if err != nil {
			return err
		}
		if _, ok := users[rec.Email]; ok {
			return storage.ErrAlreadyExists
		}
		users[rec.Email] = toFile(rec)
		return s.save(users)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает запись по email.
func (s *Storage) Get(ctx context.Context, email string) (*models.UserRecord, error) {
	const op = "storage.filestore.Get"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fr, ok := users[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	rec, err := fromFile(email, fr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// ListAll возвращает все записи, упорядоченные по email.
func (s *Storage) ListAll(ctx context.Context) ([]*models.UserRecord, error) {
	const op = "storage.filestore.ListAll"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	emails := make([]string, 0, len(users))
	for email := range users {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	result := make([]*models.UserRecord, 0, len(emails))
	for _, email := range emails {
		rec, err := fromFile(email, users[email])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, rec)
	}
	return result, nil
}

// Ping проверяет, что файл читается.
func (s *Storage) Ping(_ context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("storage.filestore.Ping: %w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

// Close ничего не делает: файл не держится открытым между операциями.
func (s *Storage) Close() error {
	return nil
}

// locked выполняет fn под блокировкой процесса и файла: exclusive для записи,
// разделяемой для чтения.
func (s *Storage) locked(ctx context.Context, exclusive bool, fn func() error) error {
	if exclusive {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}

	// Свой дескриптор на каждую операцию: flock различает владельцев по дескриптору.
	fl := flock.New(s.path + ".lock")
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = fl.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = fl.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: lock %s: %w", storage.ErrUnavailable, fl.Path(), err)
	}
	if !ok {
		return fmt.Errorf("%w: lock %s not acquired", storage.ErrUnavailable, fl.Path())
	}
	defer func() {
		_ = fl.Unlock()
	}()

	return fn()
}

func (s *Storage) read(ctx context.Context) (map[string]fileRecord, error) {
	var users map[string]fileRecord
	err := s.locked(ctx, false, func() error {
		var err error
		users, err = s.load()
		return err
	})
	return users, err
}

func (s *Storage) load() (map[string]fileRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]fileRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	users := map[string]fileRecord{}
	if len(data) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrMalformedRecord, s.path, err)
	}
	return users, nil
}

func (s *Storage) save(users map[string]fileRecord) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

func toFile(rec models.UserRecord) fileRecord {
	keywords := rec.JobKeywords
	if keywords == nil {
		keywords = []string{}
	}
	return fileRecord{
		Email:              rec.Email,
		JobKeywords:        keywords,
		Country:            rec.Country,
		SignupDate:         rec.SignupDate.UTC().Format(time.RFC3339Nano),
		TrialExpires:       rec.TrialExpires.UTC().Format(time.RFC3339Nano),
		SubscriptionStatus: string(rec.SubscriptionStatus),
	}
}

func fromFile(key string, fr fileRecord) (*models.UserRecord, error) {
	signup, err := parseTime(fr.SignupDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: signup_date: %w", storage.ErrMalformedRecord, key, err)
	}

	// Пустая дата окончания остаётся нулевой, такую запись отбракует проверка границ.
	var expires time.Time
	if fr.TrialExpires != "" {
		expires, err = parseTime(fr.TrialExpires)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: trial_expires: %w", storage.ErrMalformedRecord, key, err)
		}
	}

	email := fr.Email
	if email == "" {
		email = key
	}
	status := models.SubscriptionStatus(fr.SubscriptionStatus)
	if status == "" {
		status = models.StatusTrial
	}
	return &models.UserRecord{
		Email:              email,
		JobKeywords:        fr.JobKeywords,
		Country:            fr.Country,
		SignupDate:         signup,
		TrialExpires:       expires,
		SubscriptionStatus: status,
	}, nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}
