package domain

import "time"

// User описывает покупателя. Регистрация и аутентификация — вне этого сервиса,
// админские операции работают с уже существующими записями.
type User struct {
	ID        int64
	Name      string
	Email     string
	Address   *string
	Phone     *string
	Banned    bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
