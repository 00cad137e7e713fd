package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramUserID int64) (*User, error)
	Create(ctx context.Context, user *User) error
}

type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	Get(ctx context.Context, id string) (*Alert, error)
	ListAll(ctx context.Context) ([]Alert, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Alert, error)
	Update(ctx context.Context, alert Alert) error
	Delete(ctx context.Context, id string) error
}
