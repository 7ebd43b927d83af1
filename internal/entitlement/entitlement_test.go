package entitlement

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jobhunter/internal/models"
)

var t0 = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func TestNew_TrialBoundaries(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{name: "UTC", now: t0},
		{name: "другая зона приводится к UTC", now: t0.In(time.FixedZone("EAT", 3*60*60))},
		{name: "наносекунды сохраняются", now: t0.Add(123456789 * time.Nanosecond)},
		{name: "переход через месяц", now: time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := New("a@b.com", []string{"python", "remote"}, "Kenya", tt.now)

			assert.Equal(t, time.UTC, rec.SignupDate.Location())
			assert.True(t, rec.SignupDate.Equal(tt.now))
			assert.True(t, rec.TrialExpires.Equal(tt.now.Add(72*time.Hour)))
			assert.Equal(t, models.StatusTrial, rec.SubscriptionStatus)
			assert.Equal(t, []string{"python", "remote"}, rec.JobKeywords)
			assert.True(t, TrialEnd(rec).Equal(rec.TrialExpires))
			assert.NoError(t, Verify(rec))
		})
	}
}

func TestNew_CopiesKeywords(t *testing.T) {
	keywords := []string{"go"}
	rec := New("a@b.com", keywords, "Kenya", t0)
	keywords[0] = "changed"

	assert.Equal(t, []string{"go"}, rec.JobKeywords)
}

func TestIsTrialActive(t *testing.T) {
	rec := New("a@b.com", []string{"python"}, "Kenya", t0)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "момент регистрации", now: t0, want: true},
		{name: "через сутки", now: t0.Add(24 * time.Hour), want: true},
		{name: "за секунду до окончания", now: rec.TrialExpires.Add(-time.Second), want: true},
		{name: "за наносекунду до окончания", now: rec.TrialExpires.Add(-time.Nanosecond), want: true},
		{name: "ровно в момент окончания", now: rec.TrialExpires, want: false},
		{name: "после окончания", now: rec.TrialExpires.Add(time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTrialActive(rec, tt.now))
		})
	}
}

func TestIsTrialActive_IgnoresSubscriptionStatus(t *testing.T) {
	rec := New("a@b.com", []string{"python"}, "Kenya", t0)
	rec.SubscriptionStatus = models.StatusPaid
	assert.False(t, IsTrialActive(rec, rec.TrialExpires))

	rec.SubscriptionStatus = models.StatusExpired
	assert.True(t, IsTrialActive(rec, t0))
}

func TestStatusAt(t *testing.T) {
	rec := New("a@b.com", []string{"python"}, "Kenya", t0)
	assert.Equal(t, models.StatusTrial, StatusAt(rec, t0))
	assert.Equal(t, models.StatusExpired, StatusAt(rec, rec.TrialExpires))
}

func TestVerify(t *testing.T) {
	valid := New("a@b.com", []string{"python"}, "Kenya", t0)

	tests := []struct {
		name    string
		mutate  func(r *models.UserRecord)
		wantErr error
	}{
		{name: "корректная запись", mutate: func(_ *models.UserRecord) {}},
		{
			name:    "нет даты регистрации",
			mutate:  func(r *models.UserRecord) { r.SignupDate = time.Time{} },
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "нет даты окончания",
			mutate:  func(r *models.UserRecord) { r.TrialExpires = time.Time{} },
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "окончание сдвинуто",
			mutate:  func(r *models.UserRecord) { r.TrialExpires = r.TrialExpires.Add(time.Hour) },
			wantErr: ErrTrialBoundaryMismatch,
		},
		{
			name:   "та же точка в другой зоне",
			mutate: func(r *models.UserRecord) { r.TrialExpires = r.TrialExpires.In(time.FixedZone("X", 3600)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			err := Verify(rec)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestFillTrialEnd(t *testing.T) {
	onlySignup := models.UserRecord{Email: "a@b.com", SignupDate: t0}
	filled := FillTrialEnd(onlySignup)
	assert.Equal(t, t0.Add(72*time.Hour), filled.TrialExpires)
	assert.NoError(t, Verify(filled))

	shifted := New("a@b.com", []string{"go"}, "Kenya", t0)
	shifted.TrialExpires = shifted.TrialExpires.Add(time.Hour)
	assert.Equal(t, shifted, FillTrialEnd(shifted))

	empty := models.UserRecord{Email: "a@b.com"}
	assert.ErrorIs(t, Verify(FillTrialEnd(empty)), ErrMalformedRecord)
}

func TestPaymentOptions_MobileMoneyCountries(t *testing.T) {
	for _, country := range []string{"Uganda", "Kenya", "Nigeria", "Ghana", "Tanzania", "Rwanda"} {
		t.Run(country, func(t *testing.T) {
			plan := PaymentOptions(country)

			assert.Equal(t, models.MethodMobileMoney, plan.Primary)
			require.GreaterOrEqual(t, len(plan.Options), 2)
			for _, opt := range plan.Options {
				assert.NotEmpty(t, opt.Provider)
				assert.NotEmpty(t, opt.Link)
				assert.NotEmpty(t, opt.Description)
			}
			assert.Equal(t, "MTN Mobile Money", plan.Options[0].Provider)
			assert.Equal(t, "Airtel Money", plan.Options[1].Provider)
			require.NotNil(t, plan.Fallback)
			assert.Equal(t, models.MethodCard, plan.Fallback.Method)
		})
	}
}

func TestPaymentOptions_CardCountries(t *testing.T) {
	for _, country := range []string{"France", "", "kenya", "KENYA", " Kenya", "🇰🇪", "Uganda\x00", "United States"} {
		t.Run(country, func(t *testing.T) {
			plan := PaymentOptions(country)

			assert.Equal(t, models.MethodCard, plan.Primary)
			require.NotEmpty(t, plan.Options)
			assert.Equal(t, "Stripe", plan.Options[0].Provider)
			assert.Nil(t, plan.Fallback)
		})
	}
}

func TestPaymentOptions_Deterministic(t *testing.T) {
	for _, country := range []string{"Kenya", "France", ""} {
		first := PaymentOptions(country)
		second := PaymentOptions(country)
		assert.Equal(t, first, second)

		first.Options[0].Link = "mutated"
		assert.NotEqual(t, "mutated", PaymentOptions(country).Options[0].Link)
	}
}

func TestPaymentOptionsWithBase_TrimsSlash(t *testing.T) {
	plan := PaymentOptionsWithBase("France", "https://pay.example.com/")
	assert.Equal(t, "https://pay.example.com/stripe", plan.Options[0].Link)
}
