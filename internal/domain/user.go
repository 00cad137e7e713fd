package domain

import "time"

type User struct {
	ID             string
	TelegramUserID int64
	Username       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
