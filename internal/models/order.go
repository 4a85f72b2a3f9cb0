package models

import "time"

// Order представляет загруженный продавцом заказ, по которому покупателю
// отправляется приглашение оставить отзыв по токен-ссылке.
type Order struct {
	ID            int
	OrderID       string // Внешний номер заказа из CSV
	UserUID       string // Продавец, загрузивший заказ
	CustomerName  string
	CustomerEmail string
	ReviewToken   string // Одноразовый токен ссылки на форму отзыва
	Reviewed      bool   // Токен уже использован
	CreatedAt     time.Time
}

// ReviewInvite — сообщение очереди приглашений: по одному на строку CSV.
type ReviewInvite struct {
	OrderID       string `json:"order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	BusinessName  string `json:"business_name"`
	ReviewURL     string `json:"review_url"`
}
