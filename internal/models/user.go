// Package models содержит доменные структуры платформы Level:
// пользователей (продавцов), отзывы, заказы, тарифы и платежи.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного продавца.
type User struct {
	UUID          string     // Уникальный идентификатор пользователя
	Email         string     // Электронная почта
	Username      string     // Имя пользователя (уникальное)
	PasswordHash  string     // Хэш пароля пользователя
	Role          string     // Роль пользователя, admin или user
	FirstName     string     // Имя
	LastName      string     // Фамилия
	BusinessName  string     // Название бизнеса
	WebsiteURL    string     // Сайт бизнеса
	ContactNumber string     // Контактный телефон
	DateOfBirth   *time.Time // Дата рождения
	Country       string     // Страна
	Plan          string     // Тариф: basic, standard или pro
	PlanExpiry    *time.Time // Дата истечения оплаченного тарифа
	TrialEndDate  *time.Time // Дата истечения пробного периода
	CreatedAt     time.Time
}

// OnTrial сообщает, действует ли у пользователя пробный период.
func (u *User) OnTrial(now time.Time) bool {
	return u.TrialEndDate != nil && now.Before(*u.TrialEndDate)
}

// PlanIsExpired сообщает, истёк ли оплаченный тариф пользователя.
// Пока действует пробный период, тариф не считается истёкшим.
func (u *User) PlanIsExpired(now time.Time) bool {
	if u.OnTrial(now) {
		return false
	}
	return u.PlanExpiry == nil || now.After(*u.PlanExpiry)
}

// DummySignup используется для приёма данных регистрации из JSON-запроса.
// Дата рождения приходит строкой в формате 2006-01-02 и парсится вручную.
type DummySignup struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	BusinessName  string `json:"business_name" validate:"required"`
	WebsiteURL    string `json:"website_url" validate:"omitempty,url"`
	ContactNumber string `json:"contact_number" validate:"omitempty"`
	DateOfBirth   string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Country       string `json:"country" validate:"omitempty"`
	Plan          string `json:"plan" validate:"required,oneof=basic standard pro"`
}

// Profile представляет публичную часть учётной записи, отдаваемую клиенту.
type Profile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	BusinessName  string `json:"business_name"`
	WebsiteURL    string `json:"website_url"`
	ContactNumber string `json:"contact_number"`
	Country       string `json:"country"`
	Plan          string `json:"plan"`
}

// DummyProfileUpdate используется для приёма изменений профиля из JSON-запроса.
type DummyProfileUpdate struct {
	FirstName     string `json:"first_name" validate:"omitempty"`
	LastName      string `json:"last_name" validate:"omitempty"`
	BusinessName  string `json:"business_name" validate:"omitempty"`
	WebsiteURL    string `json:"website_url" validate:"omitempty,url"`
	ContactNumber string `json:"contact_number" validate:"omitempty"`
	Country       string `json:"country" validate:"omitempty"`
}

// ToProfile собирает Profile из доменной модели пользователя.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:            u.UUID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		BusinessName:  u.BusinessName,
		WebsiteURL:    u.WebsiteURL,
		ContactNumber: u.ContactNumber,
		Country:       u.Country,
		Plan:          u.Plan,
	}
}
