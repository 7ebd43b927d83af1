// Package postgresql реализует хранилище записей пользователей на основе PostgreSQL.
// Каждая операция выполняется одним SQL-запросом, поэтому запись никогда не видна наполовину.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/jobhunter/internal/models"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// NewWithDB оборачивает уже открытое соединение.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{DB: db}
}

// CheckDatabaseReady проверяет, что миграции применены.
func CheckDatabaseReady(ctx context.Context, s *Storage) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables 
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("required table users query error: %w", err)
	}
	if !exists {
		return errors.New("required table users missing")
	}
	return nil
}

const upsertQuery = `INSERT INTO users (email, job_keywords, country, signup_date, trial_expires, subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (email) DO UPDATE
			  SET job_keywords = EXCLUDED.job_keywords,
			      country = EXCLUDED.country,
			      signup_date = EXCLUDED.signup_date,
			      trial_expires = EXCLUDED.trial_expires,
			      subscription_status = EXCLUDED.subscription_status`

const insertQuery = `INSERT INTO users (email, job_keywords, country, signup_date, trial_expires, subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6)`

const resaveQuery = `UPDATE users SET subscription_status = subscription_status WHERE email = $1`

const selectColumns = `SELECT email, job_keywords, country, signup_date, trial_expires, subscription_status
			  FROM users`

// Upsert вставляет запись или целиком заменяет существующую.
func (s *Storage) Upsert(ctx context.Context, rec models.UserRecord) error {
	const op = "storage.postgresql.Upsert"
	return s.write(ctx, op, upsertQuery, rec)
}

// Insert вставляет новую запись; при конфликте по email возвращает storage.ErrAlreadyExists.
func (s *Storage) Insert(ctx context.Context, rec models.UserRecord) error {
	const op = "storage.postgresql.Insert"
	return s.write(ctx, op, insertQuery, rec)
}

func (s *Storage) write(ctx context.Context, op, query string, rec models.UserRecord) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	keywords, err := json.Marshal(nonNil(rec.JobKeywords))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.DB.ExecContext(ctx, query,
		rec.Email, string(keywords), rec.Country, rec.SignupDate.UTC(), rec.TrialExpires.UTC(),
		string(rec.SubscriptionStatus))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
			}
			if pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		return fmt.Errorf("%s: %w", op, unavailable(err))
	}
	return nil
}

// Resave пересохраняет текущее значение записи. UPDATE берёт блокировку строки,
// поэтому параллельная запись не откатывается к устаревшему снимку.
func (s *Storage) Resave(ctx context.Context, email string) error {
	const op = "storage.postgresql.Resave"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, resaveQuery, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, unavailable(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, unavailable(err))
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// Get возвращает запись по email.
func (s *Storage) Get(ctx context.Context, email string) (*models.UserRecord, error) {
	const op = "storage.postgresql.Get"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, selectColumns+` WHERE email = $1`, email)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// ListAll возвращает все записи, упорядоченные по дате регистрации.
func (s *Storage) ListAll(ctx context.Context) ([]*models.UserRecord, error) {
	const op = "storage.postgresql.ListAll"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, selectColumns+` ORDER BY signup_date, email`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, unavailable(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, unavailable(err))
	}
	return result, nil
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("storage.postgresql.Ping: %w", unavailable(err))
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.UserRecord, error) {
	var (
		rec      models.UserRecord
		keywords []byte
		status   string
		signup   sql.NullTime
		expires  sql.NullTime
	)
	if err := row.Scan(&rec.Email, &keywords, &rec.Country, &signup, &expires, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, unavailable(err)
	}
	if !signup.Valid || !expires.Valid {
		return nil, fmt.Errorf("%w: %s: null trial timestamps", storage.ErrMalformedRecord, rec.Email)
	}
	if err := json.Unmarshal(keywords, &rec.JobKeywords); err != nil {
		return nil, fmt.Errorf("%w: %s: job_keywords: %w", storage.ErrMalformedRecord, rec.Email, err)
	}
	rec.SignupDate = signup.Time.UTC()
	rec.TrialExpires = expires.Time.UTC()
	rec.SubscriptionStatus = models.SubscriptionStatus(status)
	return &rec, nil
}

func unavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Время ожидания по умолчанию для служебных запросов без контекста запроса.
const defaultTimeout = 5 * time.Second

// Ready ждёт применения миграций, повторяя проверку attempts раз с паузой delay.
func (s *Storage) Ready(attempts int, delay time.Duration) error {
	var err error
	for range attempts {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		err = CheckDatabaseReady(ctx, s)
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(delay)
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}
