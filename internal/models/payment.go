package models

import "time"

// Payment представляет запись истории платежей пользователя.
type Payment struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"-"`
	Plan      string    `json:"plan"`
	AmountUSD int64     `json:"amount"` // в центах
	Currency  string    `json:"currency"`
	IntentID  string    `json:"intent_id"`
	Status    string    `json:"status"` // pending, succeeded, failed
	CreatedAt time.Time `json:"created_at"`
}

// Billing агрегирует платёжную сводку для страницы профиля.
type Billing struct {
	CurrentPlan    string    `json:"currentPlan"`
	PaymentHistory []Payment `json:"paymentHistory"`
	TimeRemaining  string    `json:"timeRemaining"`
}

// DummyUpgrade используется для приёма запроса на смену тарифа.
type DummyUpgrade struct {
	Plan string `json:"plan" validate:"required,oneof=basic standard pro"`
}
