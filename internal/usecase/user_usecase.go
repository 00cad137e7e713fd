package usecase

import (
	"context"
	"errors"

	"github.com/NasaVasa/coinwatch/internal/domain"
)

type UserUsecase struct {
	users domain.UserRepository
}

func NewUserUsecase(users domain.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

func (u *UserUsecase) Register(ctx context.Context, telegramUserID int64, username string) (*domain.User, error) {
	_, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user := &domain.User{
		TelegramUserID: telegramUserID,
		Username:       username,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *UserUsecase) IsRegistered(ctx context.Context, telegramUserID int64) (bool, error) {
	_, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}
