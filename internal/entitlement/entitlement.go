// Package entitlement реализует правила пробного периода: создание записи с границами
// пробного окна, проверку доступа к запуску автоматизации и выбор способа оплаты по стране.
//
// Все функции чистые: текущее время передаётся параметром, хранилище не используется,
// поэтому пакет безопасно вызывать конкурентно без блокировок.
package entitlement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/jobhunter/internal/models"
)

// TrialDuration задаёт фиксированную длительность пробного периода.
const TrialDuration = 3 * 24 * time.Hour

// DefaultPaymentBaseURL: адрес страницы оплаты по умолчанию.
const DefaultPaymentBaseURL = "https://payment.jobhunterpro.com"

var (
	// ErrMalformedRecord: в записи отсутствует дата регистрации или окончания.
	ErrMalformedRecord = errors.New("malformed user record")
	// ErrTrialBoundaryMismatch: сохранённая дата окончания не совпадает с пересчитанной.
	ErrTrialBoundaryMismatch = errors.New("trial boundary mismatch")
)

// mobileMoneyCountries перечисляет страны, где основной способ оплаты через мобильные деньги.
// Сравнение регистрозависимое.
var mobileMoneyCountries = map[string]struct{}{
	"Uganda":   {},
	"Kenya":    {},
	"Nigeria":  {},
	"Ghana":    {},
	"Tanzania": {},
	"Rwanda":   {},
}

// New создаёт запись пользователя с началом пробного периода в момент now.
// Email должен быть нормализован вызывающей стороной.
func New(email string, jobKeywords []string, country string, now time.Time) models.UserRecord {
	signup := now.UTC()
	keywords := make([]string, len(jobKeywords))
	copy(keywords, jobKeywords)
	return models.UserRecord{
		Email:              email,
		JobKeywords:        keywords,
		Country:            country,
		SignupDate:         signup,
		TrialExpires:       signup.Add(TrialDuration),
		SubscriptionStatus: models.StatusTrial,
	}
}

// IsTrialActive сообщает, открыто ли пробное окно в момент now.
// Граница исключающая: в момент TrialExpires пробный период уже неактивен.
func IsTrialActive(rec models.UserRecord, now time.Time) bool {
	return now.Before(rec.TrialExpires)
}

// TrialEnd пересчитывает окончание пробного периода из даты регистрации.
func TrialEnd(rec models.UserRecord) time.Time {
	return rec.SignupDate.UTC().Add(TrialDuration)
}

// FillTrialEnd дополняет запись без даты окончания пересчитанной границей.
// Так хранятся записи, где сохранялась только дата регистрации.
func FillTrialEnd(rec models.UserRecord) models.UserRecord {
	if rec.TrialExpires.IsZero() && !rec.SignupDate.IsZero() {
		rec.TrialExpires = TrialEnd(rec)
	}
	return rec
}

// Verify сверяет сохранённую дату окончания с пересчитанной.
func Verify(rec models.UserRecord) error {
	if rec.SignupDate.IsZero() || rec.TrialExpires.IsZero() {
		return fmt.Errorf("%w: %s: missing trial timestamps", ErrMalformedRecord, rec.Email)
	}
	if end := TrialEnd(rec); !end.Equal(rec.TrialExpires) {
		return fmt.Errorf("%w: %s: stored %s, computed %s", ErrTrialBoundaryMismatch,
			rec.Email, rec.TrialExpires.UTC().Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// StatusAt возвращает информационную метку состояния на момент now.
func StatusAt(rec models.UserRecord, now time.Time) models.SubscriptionStatus {
	if IsTrialActive(rec, now) {
		return models.StatusTrial
	}
	return models.StatusExpired
}

// IsMobileMoneyCountry сообщает, относится ли страна к корзине мобильных денег.
func IsMobileMoneyCountry(country string) bool {
	_, ok := mobileMoneyCountries[country]
	return ok
}

// PaymentOptions выбирает план оплаты по стране со ссылками на DefaultPaymentBaseURL.
func PaymentOptions(country string) models.PaymentPlan {
	return PaymentOptionsWithBase(country, DefaultPaymentBaseURL)
}

// PaymentOptionsWithBase выбирает план оплаты по стране. Функция тотальна:
// любая строка, включая пустую, получает план; неизвестные страны уходят в карты.
// Каждый вызов возвращает новые срезы, общих изменяемых данных нет.
func PaymentOptionsWithBase(country, baseURL string) models.PaymentPlan {
	base := strings.TrimRight(baseURL, "/")
	card := models.PaymentOption{
		Provider:    "Stripe",
		Method:      models.MethodCard,
		Link:        base + "/stripe",
		Description: "Pay securely with Visa, Mastercard or American Express",
	}

	if IsMobileMoneyCountry(country) {
		return models.PaymentPlan{
			Primary: models.MethodMobileMoney,
			Method:  "Mobile Money",
			Options: []models.PaymentOption{
				{
					Provider:    "MTN Mobile Money",
					Method:      models.MethodMobileMoney,
					Link:        base + "/mtn-momo",
					Description: "Pay from your MTN MoMo wallet",
				},
				{
					Provider:    "Airtel Money",
					Method:      models.MethodMobileMoney,
					Link:        base + "/airtel-momo",
					Description: "Pay from your Airtel Money wallet",
				},
			},
			Fallback: &card,
		}
	}

	return models.PaymentPlan{
		Primary: models.MethodCard,
		Method:  "Credit Card",
		Options: []models.PaymentOption{
			card,
			{
				Provider:    "PayPal",
				Method:      models.MethodWallet,
				Link:        base + "/paypal",
				Description: "Pay with your PayPal balance or linked card",
			},
		},
	}
}
