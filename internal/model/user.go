package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	IsAdmin      bool      `json:"is_admin"` // Администратор студии: статистика и управление списком учеников
	CreatedAt    time.Time `json:"created_at"`
}
