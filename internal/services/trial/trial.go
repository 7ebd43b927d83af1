// Package trial содержит бизнес-логику пробного периода: регистрацию, проверку доступа
// к запуску автоматизации, выбор способа оплаты и статистику.
//
// Email нормализуется здесь, один раз на входе каждой операции. HTTP и CLI передают
// значения как есть.
package trial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jobhunter/internal/config"
	"github.com/magabrotheeeer/jobhunter/internal/entitlement"
	"github.com/magabrotheeeer/jobhunter/internal/lib/email"
	"github.com/magabrotheeeer/jobhunter/internal/lib/sl"
	"github.com/magabrotheeeer/jobhunter/internal/models"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
)

// Цены премиум-доступа.
const (
	PriceMonthly = "$29.99"
	PriceAnnual  = "$299.99 (Save 17%)"
)

var (
	// ErrInvalidInput: входные данные не прошли проверку.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTrialExpired: пробный период закончился, запуск запрещён.
	ErrTrialExpired = errors.New("trial expired")
)

// InputError описывает, какое именно входное значение не прошло проверку.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// TrialExpiredError сообщает об окончании пробного периода и несёт ссылку на оплату.
type TrialExpiredError struct {
	Email        string
	TrialExpires time.Time
	UpgradeURL   string
}

func (e *TrialExpiredError) Error() string {
	return fmt.Sprintf("trial for %s expired at %s", e.Email, e.TrialExpires.Format(time.RFC3339))
}

func (e *TrialExpiredError) Unwrap() error {
	return ErrTrialExpired
}

// DuplicateSignupError возвращается при повторной регистрации с политикой reject.
// Несёт текущее состояние существующей записи.
type DuplicateSignupError struct {
	Status models.TrialStatus
}

func (e *DuplicateSignupError) Error() string {
	return fmt.Sprintf("user %s already registered", e.Status.Email)
}

func (e *DuplicateSignupError) Unwrap() error {
	return storage.ErrAlreadyExists
}

// Repository определяет методы хранилища, которые нужны сервису.
type Repository interface {
	// Upsert вставляет запись или целиком заменяет существующую.
	Upsert(ctx context.Context, rec models.UserRecord) error
	// Insert вставляет запись, только если email свободен.
	Insert(ctx context.Context, rec models.UserRecord) error
	// Get возвращает запись по email.
	Get(ctx context.Context, email string) (*models.UserRecord, error)
	// ListAll возвращает все записи.
	ListAll(ctx context.Context) ([]*models.UserRecord, error)
	// Resave пересохраняет текущее значение записи без изменений.
	Resave(ctx context.Context, email string) error
}

// Cache описывает методы для кэширования записей.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Recorder принимает бизнес-метрики.
type Recorder interface {
	Signup(result string)
	RunDecision(result string)
}

// Options содержит настройки сервиса.
type Options struct {
	SignupPolicy     string
	AllowedCountries []string
	PaymentBaseURL   string
	UpgradePath      string
	CacheTTL         time.Duration
	// Clock возвращает текущее время. По умолчанию time.Now.
	Clock   func() time.Time
	Metrics Recorder
}

// OptionsFromConfig собирает Options из конфига.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SignupPolicy:     cfg.Trial.SignupPolicy,
		AllowedCountries: cfg.Trial.AllowedCountries,
		PaymentBaseURL:   cfg.Trial.PaymentBaseURL,
		UpgradePath:      cfg.Trial.UpgradePath,
		CacheTTL:         cfg.Redis.TTL,
	}
}

// TrialService реализует операции пробного периода поверх хранилища и кеша.
type TrialService struct {
	repo     Repository
	cache    Cache
	log      *slog.Logger
	opts     Options
	allowed  map[string]struct{}
	validate *validator.Validate
}

// NewTrialService создает новый экземпляр TrialService.
func NewTrialService(repo Repository, cache Cache, log *slog.Logger, opts Options) *TrialService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.SignupPolicy == "" {
		opts.SignupPolicy = config.SignupPolicyReject
	}
	if opts.PaymentBaseURL == "" {
		opts.PaymentBaseURL = entitlement.DefaultPaymentBaseURL
	}
	if opts.UpgradePath == "" {
		opts.UpgradePath = "/api/v1/upgrade"
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}

	var allowed map[string]struct{}
	if len(opts.AllowedCountries) > 0 {
		allowed = make(map[string]struct{}, len(opts.AllowedCountries))
		for _, c := range opts.AllowedCountries {
			allowed[strings.TrimSpace(c)] = struct{}{}
		}
	}

	return &TrialService{
		repo:     repo,
		cache:    cache,
		log:      log,
		opts:     opts,
		allowed:  allowed,
		validate: validator.New(),
	}
}

// Signup регистрирует пользователя и открывает пробный период.
// При политике reject повторная регистрация возвращает *DuplicateSignupError,
// при overwrite запись заменяется и пробный период начинается заново.
func (s *TrialService) Signup(ctx context.Context, rawEmail string, keywords []string, country string) (*models.UserRecord, error) {
	const op = "services.trial.Signup"

	addr, err := s.normalizeEmail(rawEmail)
	if err != nil {
		s.record("invalid")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	kws, err := cleanKeywords(keywords)
	if err != nil {
		s.record("invalid")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	country = strings.TrimSpace(country)
	if err := s.checkCountry(country); err != nil {
		s.record("invalid")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec := entitlement.New(addr, kws, country, s.opts.Clock())

	if s.opts.SignupPolicy == config.SignupPolicyOverwrite {
		err = s.repo.Upsert(ctx, rec)
	} else {
		err = s.repo.Insert(ctx, rec)
	}
	if errors.Is(err, storage.ErrAlreadyExists) {
		s.record("conflict")
		existing, getErr := s.load(ctx, addr)
		if getErr != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, &DuplicateSignupError{Status: s.status(*existing)})
	}
	if err != nil {
		s.record("error")
		s.log.Error("failed to save user record", sl.Email(addr), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, addr)
	s.record("created")

	s.log.Info("trial started",
		sl.Email(addr),
		slog.String("country", country),
		slog.Time("trial_expires", rec.TrialExpires),
	)
	return &rec, nil
}

// Run запускает автоматизацию поиска вакансий, если пробный период открыт.
// Сам запуск имитируется записью в лог.
func (s *TrialService) Run(ctx context.Context, rawEmail string) (*models.RunResult, error) {
	const op = "services.trial.Run"

	rec, err := s.get(ctx, rawEmail)
	if err != nil {
		s.runDecision(err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !entitlement.IsTrialActive(*rec, s.opts.Clock()) {
		s.runDecision(ErrTrialExpired)
		return nil, fmt.Errorf("%s: %w", op, &TrialExpiredError{
			Email:        rec.Email,
			TrialExpires: rec.TrialExpires,
			UpgradeURL:   s.UpgradeURL(rec.Email),
		})
	}
	s.runDecision(nil)

	s.log.Info("running job automation",
		sl.Email(rec.Email),
		slog.Any("keywords", rec.JobKeywords),
	)
	return &models.RunResult{
		Message:      "Job automation running successfully!",
		Status:       "active",
		Keywords:     rec.JobKeywords,
		TrialExpires: rec.TrialExpires,
	}, nil
}

// Upgrade возвращает варианты оплаты для страны пользователя и цены.
func (s *TrialService) Upgrade(ctx context.Context, rawEmail string) (*models.UpgradeOffer, error) {
	const op = "services.trial.Upgrade"

	rec, err := s.get(ctx, rawEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.UpgradeOffer{
		Message:        "Upgrade to JobHunterPro Premium",
		Email:          rec.Email,
		Country:        rec.Country,
		PaymentOptions: entitlement.PaymentOptionsWithBase(rec.Country, s.opts.PaymentBaseURL),
		Pricing: models.Pricing{
			Monthly: PriceMonthly,
			Annual:  PriceAnnual,
		},
	}, nil
}

// Status возвращает состояние пробного периода пользователя.
func (s *TrialService) Status(ctx context.Context, rawEmail string) (*models.TrialStatus, error) {
	const op = "services.trial.Status"

	rec, err := s.get(ctx, rawEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st := s.status(*rec)
	return &st, nil
}

// Stats считает записи с открытым и закрытым пробным периодом.
func (s *TrialService) Stats(ctx context.Context) (*models.TrialStats, error) {
	const op = "services.trial.Stats"

	recs, err := s.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.opts.Clock()
	stats := &models.TrialStats{Total: len(recs)}
	for _, rec := range recs {
		if entitlement.IsTrialActive(*rec, now) {
			stats.Active++
		} else {
			stats.Expired++
		}
	}
	return stats, nil
}

// Expiring возвращает уведомления для открытых пробных периодов,
// которые закончатся в течение window.
func (s *TrialService) Expiring(ctx context.Context, window time.Duration) ([]models.TrialNotification, error) {
	const op = "services.trial.Expiring"

	recs, err := s.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.opts.Clock()
	deadline := now.Add(window)

	var result []models.TrialNotification
	for _, rec := range recs {
		if !entitlement.IsTrialActive(*rec, now) || rec.TrialExpires.After(deadline) {
			continue
		}
		result = append(result, models.TrialNotification{
			Email:        rec.Email,
			Country:      rec.Country,
			TrialExpires: rec.TrialExpires,
			UpgradeURL:   s.UpgradeURL(rec.Email),
		})
	}
	return result, nil
}

// Sweep пересохраняет все записи без изменений. Каждая запись перечитывается
// хранилищем в момент записи, поэтому регистрация, прошедшая во время обхода,
// не откатывается. Записи, исчезнувшие во время обхода, пропускаются.
// Возвращает число пересохранённых записей.
func (s *TrialService) Sweep(ctx context.Context) (int, error) {
	const op = "services.trial.Sweep"

	recs, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	saved := 0
	for _, rec := range recs {
		err := s.repo.Resave(ctx, rec.Email)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return saved, fmt.Errorf("%s: %s: %w", op, rec.Email, err)
		}
		saved++
	}
	s.log.Info("sweep finished", slog.Int("records", saved))
	return saved, nil
}

// UpgradeURL строит относительную ссылку на страницу оплаты для email.
func (s *TrialService) UpgradeURL(addr string) string {
	return s.opts.UpgradePath + "?email=" + url.QueryEscape(addr)
}

// get нормализует email, читает запись и сверяет её границы.
// Формат адреса здесь не проверяется: неизвестный ключ любого вида даёт ErrNotFound.
func (s *TrialService) get(ctx context.Context, rawEmail string) (*models.UserRecord, error) {
	addr := email.Normalize(rawEmail)
	if addr == "" {
		return nil, invalid("email is required")
	}
	rec, err := s.load(ctx, addr)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Error("failed to load user record", sl.Email(addr), sl.Err(err))
		}
		return nil, err
	}
	if err := entitlement.Verify(*rec); err != nil {
		s.log.Error("stored user record is inconsistent", sl.Email(addr), sl.Err(err))
		return nil, err
	}
	return rec, nil
}

func (s *TrialService) load(ctx context.Context, addr string) (*models.UserRecord, error) {
	key := cacheKey(addr)

	var cached models.UserRecord
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found && err == nil {
		return &cached, nil
	}

	stored, err := s.repo.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	rec := entitlement.FillTrialEnd(*stored)
	if err := s.cache.Set(ctx, key, &rec, s.opts.CacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return &rec, nil
}

// list читает все записи и дополняет недостающие даты окончания.
func (s *TrialService) list(ctx context.Context) ([]*models.UserRecord, error) {
	recs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i, rec := range recs {
		filled := entitlement.FillTrialEnd(*rec)
		recs[i] = &filled
	}
	return recs, nil
}

func (s *TrialService) invalidate(ctx context.Context, addr string) {
	key := cacheKey(addr)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *TrialService) status(rec models.UserRecord) models.TrialStatus {
	now := s.opts.Clock()
	return models.TrialStatus{
		Email:        rec.Email,
		Country:      rec.Country,
		SignupDate:   rec.SignupDate,
		TrialExpires: rec.TrialExpires,
		TrialActive:  entitlement.IsTrialActive(rec, now),
		Status:       entitlement.StatusAt(rec, now),
		JobKeywords:  rec.JobKeywords,
	}
}

func (s *TrialService) normalizeEmail(raw string) (string, error) {
	addr := email.Normalize(raw)
	if addr == "" {
		return "", invalid("email is required")
	}
	if err := s.validate.Var(addr, "email"); err != nil {
		return "", invalid("invalid email format")
	}
	return addr, nil
}

func (s *TrialService) checkCountry(country string) error {
	if country == "" {
		return invalid("country is required")
	}
	if s.allowed == nil {
		return nil
	}
	if _, ok := s.allowed[country]; !ok {
		return invalid("country %q is not supported", country)
	}
	return nil
}

func (s *TrialService) record(result string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.Signup(result)
	}
}

func (s *TrialService) runDecision(err error) {
	if s.opts.Metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.opts.Metrics.RunDecision("allowed")
	case errors.Is(err, ErrTrialExpired):
		s.opts.Metrics.RunDecision("expired")
	case errors.Is(err, storage.ErrNotFound):
		s.opts.Metrics.RunDecision("not_found")
	case errors.Is(err, ErrInvalidInput):
		s.opts.Metrics.RunDecision("invalid")
	default:
		s.opts.Metrics.RunDecision("error")
	}
}

func cleanKeywords(keywords []string) ([]string, error) {
	if len(keywords) == 0 {
		return nil, invalid("job_keywords must not be empty")
	}
	result := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return nil, invalid("job_keywords must not contain empty values")
		}
		result = append(result, kw)
	}
	return result, nil
}

func cacheKey(addr string) string {
	return "user:" + addr
}
