package models

// PaymentMethod обозначает корзину способа оплаты.
type PaymentMethod string

const (
	MethodMobileMoney PaymentMethod = "mobile_money"
	MethodCard        PaymentMethod = "card"
	MethodWallet      PaymentMethod = "wallet"
)

// PaymentOption описывает одного платёжного провайдера.
type PaymentOption struct {
	Provider    string        `json:"provider"`
	Method      PaymentMethod `json:"method"`
	Link        string        `json:"link"`
	Description string        `json:"description"`
}

// PaymentPlan содержит набор вариантов оплаты, выбранный по стране пользователя.
// Options содержит провайдеров основного способа (и, для карт, вторичный кошелёк),
// Fallback заполнен только для мобильных денег.
type PaymentPlan struct {
	Primary  PaymentMethod   `json:"primary"`
	Method   string          `json:"method"`
	Options  []PaymentOption `json:"options"`
	Fallback *PaymentOption  `json:"fallback,omitempty"`
}

// Pricing описывает стоимость премиум-доступа.
type Pricing struct {
	Monthly string `json:"monthly"`
	Annual  string `json:"annual"`
}

// UpgradeOffer описывает ответ на запрос перехода на платный тариф.
type UpgradeOffer struct {
	Message        string      `json:"message"`
	Email          string      `json:"email"`
	Country        string      `json:"country"`
	PaymentOptions PaymentPlan `json:"payment_options"`
	Pricing        Pricing     `json:"pricing"`
}
