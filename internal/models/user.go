// Package models содержит доменные структуры сервиса: запись пользователя с границами
// пробного периода, план оплаты и результаты операций, которые отдаются наружу.
package models

import "time"

// SubscriptionStatus хранит информационную метку состояния подписки.
// Для проверки доступа не используется: доступ определяется только сравнением времени.
type SubscriptionStatus string

const (
	StatusTrial   SubscriptionStatus = "trial"
	StatusExpired SubscriptionStatus = "expired"
	StatusPaid    SubscriptionStatus = "paid"
)

// UserRecord представляет пользователя, оформившего пробный период.
// Ключом записи служит нормализованный email.
type UserRecord struct {
	Email              string             `json:"email"`               // Нормализованный email (нижний регистр, без пробелов)
	JobKeywords        []string           `json:"job_keywords"`        // Ключевые слова для поиска вакансий
	Country            string             `json:"country"`             // Страна, определяет способ оплаты
	SignupDate         time.Time          `json:"signup_date"`         // Момент регистрации (UTC), не меняется
	TrialExpires       time.Time          `json:"trial_expires"`       // SignupDate + длительность пробного периода
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"` // Информационное поле
}

// SignupRequest используется для приёма данных регистрации из JSON-запроса.
// Формат email проверяет сервис после нормализации.
type SignupRequest struct {
	Email       string   `json:"email" validate:"required" example:"user@example.com"`
	JobKeywords []string `json:"job_keywords" validate:"required,min=1,dive,required" example:"python,remote"`
	Country     string   `json:"country" validate:"required" example:"Kenya"`
}

// RunResult описывает результат успешного запуска автоматизации.
type RunResult struct {
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	Keywords     []string  `json:"keywords"`
	TrialExpires time.Time `json:"trial_expires"`
}

// TrialStatus описывает состояние пробного периода пользователя на текущий момент.
type TrialStatus struct {
	Email        string             `json:"email"`
	Country      string             `json:"country"`
	SignupDate   time.Time          `json:"signup_date"`
	TrialExpires time.Time          `json:"trial_expires"`
	TrialActive  bool               `json:"trial_active"`
	Status       SubscriptionStatus `json:"status"`
	JobKeywords  []string           `json:"job_keywords"`
}

// TrialStats содержит агрегированную статистику по всем записям.
type TrialStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
}

// TrialNotification: сообщение планировщика о скором окончании пробного периода.
type TrialNotification struct {
	Email        string    `json:"email"`
	Country      string    `json:"country"`
	TrialExpires time.Time `json:"trial_expires"`
	UpgradeURL   string    `json:"upgrade_url"`
}
