package trial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jobhunter/internal/config"
	"github.com/magabrotheeeer/jobhunter/internal/entitlement"
	"github.com/magabrotheeeer/jobhunter/internal/models"
	"github.com/magabrotheeeer/jobhunter/internal/storage"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// memRepo хранит записи в памяти и отдаёт те же ошибки, что и настоящие хранилища.
type memRepo struct {
	mu    sync.Mutex
	users map[string]models.UserRecord
	gets  int
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]models.UserRecord{}}
}

func (r *memRepo) Upsert(_ context.Context, rec models.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[rec.Email] = rec
	return nil
}

func (r *memRepo) Insert(_ context.Context, rec models.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[rec.Email]; ok {
		return storage.ErrAlreadyExists
	}
	r.users[rec.Email] = rec
	return nil
}

func (r *memRepo) Get(_ context.Context, email string) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	rec, ok := r.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &rec, nil
}

func (r *memRepo) Resave(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.users[email]
	if !ok {
		return storage.ErrNotFound
	}
	r.users[email] = rec
	return nil
}

func (r *memRepo) ListAll(_ context.Context) ([]*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.UserRecord, 0, len(r.users))
	for _, rec := range r.users {
		rec := rec
		result = append(result, &rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

// listHookRepo вызывает afterList сразу после снимка ListAll.
type listHookRepo struct {
	*memRepo
	afterList func()
}

func (r *listHookRepo) ListAll(ctx context.Context) ([]*models.UserRecord, error) {
	recs, err := r.memRepo.ListAll(ctx)
	if r.afterList != nil {
		r.afterList()
	}
	return recs, err
}

type RepoMock struct{ mock.Mock }

func (m *RepoMock) Upsert(ctx context.Context, rec models.UserRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *RepoMock) Insert(ctx context.Context, rec models.UserRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *RepoMock) Get(ctx context.Context, email string) (*models.UserRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *RepoMock) Resave(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *RepoMock) ListAll(ctx context.Context) ([]*models.UserRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserRecord), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// noCache ничего не хранит.
type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (noCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noCache) Invalidate(context.Context, string) error              { return nil }

type recorderMock struct {
	signups []string
	runs    []string
}

func (r *recorderMock) Signup(result string)      { r.signups = append(r.signups, result) }
func (r *recorderMock) RunDecision(result string) { r.runs = append(r.runs, result) }

// clock: управляемые часы для тестов.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo Repository, opts Options) (*TrialService, *clock) {
	c := &clock{now: t0}
	opts.Clock = c.Now
	return NewTrialService(repo, noCache{}, testLogger(), opts), c
}

func TestSignup_CreatesTrial(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo, Options{})

	rec, err := svc.Signup(context.Background(), "  A@B.com ", []string{" python ", "remote"}, " Kenya ")
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", rec.Email)
	assert.Equal(t, []string{"python", "remote"}, rec.JobKeywords)
	assert.Equal(t, "Kenya", rec.Country)
	assert.Equal(t, t0, rec.SignupDate)
	assert.Equal(t, t0.Add(72*time.Hour), rec.TrialExpires)
	assert.Equal(t, models.StatusTrial, rec.SubscriptionStatus)

	stored, err := repo.Get(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, *rec, *stored)
}

func TestSignup_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		keywords []string
		country  string
		allowed  []string
	}{
		{name: "empty email", email: "  ", keywords: []string{"go"}, country: "Kenya"},
		{name: "malformed email", email: "not-an-email", keywords: []string{"go"}, country: "Kenya"},
		{name: "no keywords", email: "a@b.com", keywords: nil, country: "Kenya"},
		{name: "blank keyword", email: "a@b.com", keywords: []string{"go", "  "}, country: "Kenya"},
		{name: "empty country", email: "a@b.com", keywords: []string{"go"}, country: " "},
		{name: "country not allowed", email: "a@b.com", keywords: []string{"go"}, country: "Mars", allowed: []string{"Kenya"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc, _ := newTestService(repo, Options{AllowedCountries: tt.allowed})

			_, err := svc.Signup(context.Background(), tt.email, tt.keywords, tt.country)
			require.ErrorIs(t, err, ErrInvalidInput)
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestSignup_UnknownCountryAccepted(t *testing.T) {
	svc, _ := newTestService(newMemRepo(), Options{})

	rec, err := svc.Signup(context.Background(), "a@b.com", []string{"go"}, "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "Atlantis", rec.Country)
}

func TestSignup_RejectDuplicate(t *testing.T) {
	repo := newMemRepo()
	rec := &recorderMock{}
	svc, c := newTestService(repo, Options{SignupPolicy: config.SignupPolicyReject, Metrics: rec})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", []string{"go"}, "Kenya")
	require.NoError(t, err)

	c.now = t0.Add(24 * time.Hour)
	_, err = svc.Signup(ctx, "A@B.COM", []string{"rust"}, "France")
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	var dup *DuplicateSignupError
	require.ErrorAs(t, err, &dup)
	assert.True(t, dup.Status.TrialActive)
	assert.Equal(t, "Kenya", dup.Status.Country)

	stored, err := repo.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, t0, stored.SignupDate)
	assert.Equal(t, []string{"created", "conflict"}, rec.signups)
}

func TestSignup_OverwriteResetsTrial(t *testing.T) {
	repo := newMemRepo()
	svc, c := newTestService(repo, Options{SignupPolicy: config.SignupPolicyOverwrite})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", []string{"go"}, "Kenya")
	require.NoError(t, err)

	c.now = t0.Add(5 * 24 * time.Hour)
	rec, err := svc.Signup(ctx, "a@b.com", []string{"rust"}, "France")
	require.NoError(t, err)
	assert.Equal(t, c.now, rec.SignupDate)

	stored, err := repo.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "France", stored.Country)
	assert.Equal(t, []string{"rust"}, stored.JobKeywords)
}

func TestSignup_StoreUnavailable(t *testing.T) {
	repo := new(RepoMock)
	down := errors.Join(storage.ErrUnavailable, errors.New("disk full"))
	repo.On("Insert", mock.Anything, mock.Anything).Return(down)
	svc, _ := newTestService(repo, Options{})

	_, err := svc.Signup(context.Background(), "a@b.com", []string{"go"}, "Kenya")
	require.ErrorIs(t, err, storage.ErrUnavailable)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestRun_Window(t *testing.T) {
	repo := newMemRepo()
	rec := &recorderMock{}
	svc, c := newTestService(repo, Options{Metrics: rec})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", []string{"python", "remote"}, "Kenya")
	require.NoError(t, err)

	tests := []struct {
		name   string
		at     time.Time
		active bool
	}{
		{name: "at signup", at: t0, active: true},
		{name: "one day in", at: t0.Add(24 * time.Hour), active: true},
		{name: "one nanosecond before expiry", at: t0.Add(72*time.Hour - time.Nanosecond), active: true},
		{name: "exactly at expiry", at: t0.Add(72 * time.Hour), active: false},
		{name: "long after", at: t0.Add(30 * 24 * time.Hour), active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.now = tt.at
			res, err := svc.Run(ctx, "a@b.com")
			if tt.active {
				require.NoError(t, err)
				assert.Equal(t, "active", res.Status)
				assert.Equal(t, []string{"python", "remote"}, res.Keywords)
				return
			}
			require.ErrorIs(t, err, ErrTrialExpired)
			var expired *TrialExpiredError
			require.ErrorAs(t, err, &expired)
			assert.Equal(t, "/api/v1/upgrade?email=a%40b.com", expired.UpgradeURL)
			assert.Equal(t, t0.Add(72*time.Hour), expired.TrialExpires)
		})
	}
	assert.Equal(t, []string{"allowed", "allowed", "allowed", "expired", "expired"}, rec.runs)
}

func TestRun_StatusFieldIgnored(t *testing.T) {
	repo := newMemRepo()
	svc, c := newTestService(repo, Options{})
	ctx := context.Background()

	paid := entitlement.New("paid@b.com", []string{"go"}, "Kenya", t0)
	paid.SubscriptionStatus = models.StatusPaid
	require.NoError(t, repo.Upsert(ctx, paid))

	stale := entitlement.New("stale@b.com", []string{"go"}, "Kenya", t0)
	stale.SubscriptionStatus = models.StatusExpired
	require.NoError(t, repo.Upsert(ctx, stale))

	_, err := svc.Run(ctx, "stale@b.com")
	require.NoError(t, err)

	c.now = t0.Add(73 * time.Hour)
	_, err = svc.Run(ctx, "paid@b.com")
	require.ErrorIs(t, err, ErrTrialExpired)
}

func TestRun_NotFound(t *testing.T) {
	svc, _ := newTestService(newMemRepo(), Options{})

	_, err := svc.Run(context.Background(), "ghost@b.com")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRun_InvalidEmail(t *testing.T) {
	svc, _ := newTestService(newMemRepo(), Options{})

	_, err := svc.Run(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRun_BoundaryMismatch(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo, Options{})
	ctx := context.Background()

	rec := entitlement.New("a@b.com", []string{"go"}, "Kenya", t0)
	rec.TrialExpires = rec.TrialExpires.Add(30 * 24 * time.Hour)
	require.NoError(t, repo.Upsert(ctx, rec))

	_, err := svc.Run(ctx, "a@b.com")
	require.ErrorIs(t, err, entitlement.ErrTrialBoundaryMismatch)
}

func TestUpgrade(t *testing.T) {
	tests := []struct {
		country string
		primary models.PaymentMethod
	}{
		{country: "Kenya", primary: models.MethodMobileMoney},
		{country: "Uganda", primary: models.MethodMobileMoney},
		{country: "France", primary: models.MethodCard},
		{country: "kenya", primary: models.MethodCard},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			svc, _ := newTestService(newMemRepo(), Options{PaymentBaseURL: "https://pay.example.com"})
			ctx := context.Background()
			_, err := svc.Signup(ctx, "a@b.com", []string{"go"}, tt.country)
			require.NoError(t, err)

			offer, err := svc.Upgrade(ctx, "a@b.com")
			require.NoError(t, err)
			assert.Equal(t, tt.primary, offer.PaymentOptions.Primary)
			assert.Equal(t, tt.country, offer.Country)
			assert.Equal(t, PriceMonthly, offer.Pricing.Monthly)
			assert.Equal(t, PriceAnnual, offer.Pricing.Annual)
			for _, opt := range offer.PaymentOptions.Options {
				assert.Contains(t, opt.Link, "https://pay.example.com/")
			}
		})
	}
}

func TestUpgrade_NotFound(t *testing.T) {
	svc, _ := newTestService(newMemRepo(), Options{})

	_, err := svc.Upgrade(context.Background(), "ghost@b.com")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStatus(t *testing.T) {
	svc, c := newTestService(newMemRepo(), Options{})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", []string{"go"}, "Kenya")
	require.NoError(t, err)

	st, err := svc.Status(ctx, "A@b.com")
	require.NoError(t, err)
	assert.True(t, st.TrialActive)
	assert.Equal(t, models.StatusTrial, st.Status)
	assert.Equal(t, "Kenya", st.Country)
	assert.Equal(t, t0, st.SignupDate)
	assert.Equal(t, []string{"go"}, st.JobKeywords)

	c.now = t0.Add(72 * time.Hour)
	st, err = svc.Status(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, st.TrialActive)
	assert.Equal(t, models.StatusExpired, st.Status)
}

func TestStatsAndExpiring(t *testing.T) {
	repo := newMemRepo()
	svc, c := newTestService(repo, Options{})
	ctx := context.Background()

	c.now = t0
	_, err := svc.Signup(ctx, "old@b.com", []string{"go"}, "Kenya")
	require.NoError(t, err)
	c.now = t0.Add(48 * time.Hour)
	_, err = svc.Signup(ctx, "mid@b.com", []string{"go"}, "France")
	require.NoError(t, err)
	c.now = t0.Add(96 * time.Hour)
	_, err = svc.Signup(ctx, "new@b.com", []string{"go"}, "Ghana")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TrialStats{Total: 3, Active: 2, Expired: 1}, *stats)

	// mid истекает в t0+120h, new в t0+168h.
	notes, err := svc.Expiring(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "mid@b.com", notes[0].Email)
	assert.Equal(t, "/api/v1/upgrade?email=mid%40b.com", notes[0].UpgradeURL)
}

func TestSweep(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo, Options{})
	ctx := context.Background()

	for _, e := range []string{"a@b.com", "b@b.com"} {
		_, err := svc.Signup(ctx, e, []string{"go"}, "Kenya")
		require.NoError(t, err)
	}
	before, err := repo.ListAll(ctx)
	require.NoError(t, err)

	n, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	after, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSweep_StopsOnError(t *testing.T) {
	repo := new(RepoMock)
	recs := []*models.UserRecord{{Email: "a@b.com"}, {Email: "b@b.com"}}
	repo.On("ListAll", mock.Anything).Return(recs, nil)
	repo.On("Resave", mock.Anything, "a@b.com").Return(nil)
	repo.On("Resave", mock.Anything, "b@b.com").Return(storage.ErrUnavailable)
	svc, _ := newTestService(repo, Options{})

	n, err := svc.Sweep(context.Background())
	require.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Equal(t, 1, n)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSweep_KeepsSignupDuringSweep(t *testing.T) {
	repo := &listHookRepo{memRepo: newMemRepo()}
	svc, c := newTestService(repo, Options{SignupPolicy: config.SignupPolicyOverwrite})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", []string{"go"}, "Kenya")
	require.NoError(t, err)

	resignup := t0.Add(5 * 24 * time.Hour)
	repo.afterList = func() {
		repo.afterList = nil
		c.now = resignup
		_, err := svc.Signup(ctx, "a@b.com", []string{"rust"}, "France")
		require.NoError(t, err)
	}

	n, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, resignup, got.SignupDate)
	assert.Equal(t, "France", got.Country)
	assert.Equal(t, []string{"rust"}, got.JobKeywords)
}

func TestSweep_SkipsVanishedRecords(t *testing.T) {
	repo := new(RepoMock)
	recs := []*models.UserRecord{{Email: "a@b.com"}, {Email: "b@b.com"}}
	repo.On("ListAll", mock.Anything).Return(recs, nil)
	repo.On("Resave", mock.Anything, "a@b.com").Return(fmt.Errorf("resave: %w", storage.ErrNotFound))
	repo.On("Resave", mock.Anything, "b@b.com").Return(nil)
	svc, _ := newTestService(repo, Options{})

	n, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLookups_UnknownAddressIsNotFound(t *testing.T) {
	svc, _ := newTestService(newMemRepo(), Options{})
	ctx := context.Background()

	for _, addr := range []string{"nobody", "not-an-email", "ghost@b.com"} {
		_, err := svc.Status(ctx, addr)
		require.ErrorIs(t, err, storage.ErrNotFound, addr)
		_, err = svc.Run(ctx, addr)
		require.ErrorIs(t, err, storage.ErrNotFound, addr)
		_, err = svc.Upgrade(ctx, addr)
		require.ErrorIs(t, err, storage.ErrNotFound, addr)
	}

	_, err := svc.Status(ctx, "   ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMissingTrialEndIsDerived(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Upsert(context.Background(), models.UserRecord{
		Email:              "a@b.com",
		JobKeywords:        []string{"go"},
		Country:            "Kenya",
		SignupDate:         t0,
		SubscriptionStatus: models.StatusTrial,
	}))
	svc, c := newTestService(repo, Options{})
	ctx := context.Background()

	st, err := svc.Status(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, t0.Add(72*time.Hour), st.TrialExpires)
	assert.True(t, st.TrialActive)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TrialStats{Total: 1, Active: 1}, *stats)

	c.now = t0.Add(72 * time.Hour)
	_, err = svc.Run(ctx, "a@b.com")
	var expired *TrialExpiredError
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, t0.Add(72*time.Hour), expired.TrialExpires)
}

func TestCache_HitSkipsRepository(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	rec := entitlement.New("a@b.com", []string{"go"}, "Kenya", t0)

	cache.On("Get", mock.Anything, "user:a@b.com", mock.Anything).
		Run(func(args mock.Arguments) {
			*(args.Get(2).(*models.UserRecord)) = rec
		}).
		Return(true, nil)

	svc := NewTrialService(repo, cache, testLogger(), Options{Clock: func() time.Time { return t0 }})
	st, err := svc.Status(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Kenya", st.Country)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCache_FailureFallsBackToRepository(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	rec := entitlement.New("a@b.com", []string{"go"}, "Kenya", t0)

	cache.On("Get", mock.Anything, "user:a@b.com", mock.Anything).Return(false, errors.New("redis down"))
	cache.On("Set", mock.Anything, "user:a@b.com", &rec, time.Hour).Return(errors.New("redis down"))
	repo.On("Get", mock.Anything, "a@b.com").Return(&rec, nil)

	svc := NewTrialService(repo, cache, testLogger(), Options{Clock: func() time.Time { return t0 }})
	res, err := svc.Run(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "active", res.Status)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCache_InvalidatedAfterSignup(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	cache.On("Invalidate", mock.Anything, "user:a@b.com").Return(nil)

	svc := NewTrialService(repo, cache, testLogger(), Options{
		SignupPolicy: config.SignupPolicyOverwrite,
		Clock:        func() time.Time { return t0 },
	})
	_, err := svc.Signup(context.Background(), "a@b.com", []string{"go"}, "Kenya")
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("trial expires exactly three days after signup", func(t *testing.T) {
		svc, c := newTestService(newMemRepo(), Options{})
		rec, err := svc.Signup(ctx, "a@b.com", []string{"python", "remote"}, "Kenya")
		require.NoError(t, err)
		assert.Equal(t, t0.Add(3*24*time.Hour), rec.TrialExpires)

		c.now = t0.Add(24 * time.Hour)
		_, err = svc.Run(ctx, "a@b.com")
		require.NoError(t, err)

		c.now = t0.Add(3 * 24 * time.Hour)
		_, err = svc.Run(ctx, "a@b.com")
		require.ErrorIs(t, err, ErrTrialExpired)
	})

	t.Run("mobile money country gets two providers", func(t *testing.T) {
		svc, _ := newTestService(newMemRepo(), Options{})
		_, err := svc.Signup(ctx, "a@b.com", []string{"python", "remote"}, "Kenya")
		require.NoError(t, err)

		offer, err := svc.Upgrade(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, models.MethodMobileMoney, offer.PaymentOptions.Primary)
		assert.GreaterOrEqual(t, len(offer.PaymentOptions.Options), 2)
	})

	t.Run("card country", func(t *testing.T) {
		svc, _ := newTestService(newMemRepo(), Options{})
		_, err := svc.Signup(ctx, "b@b.com", []string{"go"}, "France")
		require.NoError(t, err)

		offer, err := svc.Upgrade(ctx, "b@b.com")
		require.NoError(t, err)
		assert.Equal(t, models.MethodCard, offer.PaymentOptions.Primary)
	})

	t.Run("status of unknown email", func(t *testing.T) {
		svc, _ := newTestService(newMemRepo(), Options{})
		_, err := svc.Status(ctx, "nobody@b.com")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}
