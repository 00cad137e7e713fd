package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotRegistered = errors.New("user not registered")
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrInvalidThreshold  = errors.New("invalid threshold")
	ErrAlertNotFound     = errors.New("alert not found")
	ErrTokenNotFound     = errors.New("token not found")
)

type AlertUsecase struct {
	users  domain.UserRepository
	alerts domain.AlertRepository
	market domain.MarketData
}

func NewAlertUsecase(users domain.UserRepository, alerts domain.AlertRepository, market domain.MarketData) *AlertUsecase {
	return &AlertUsecase{users: users, alerts: alerts, market: market}
}

// SetAlert resolves tokenName against the coin list by case-insensitive name
// and stores a new alert for the caller.
func (u *AlertUsecase) SetAlert(ctx context.Context, telegramUserID int64, tokenName, threshold string) (*domain.Alert, error) {
	if err := u.requireUser(ctx, telegramUserID); err != nil {
		return nil, err
	}

	decThreshold, err := ParseThreshold(threshold)
	if err != nil {
		return nil, err
	}

	coins, err := u.market.CoinsList(ctx)
	if err != nil {
		return nil, err
	}

	wanted := strings.ToLower(strings.TrimSpace(tokenName))
	coin, ok := lo.Find(coins, func(c domain.CoinRef) bool {
		return strings.ToLower(c.Name) == wanted
	})
	if !ok {
		return nil, ErrTokenNotFound
	}

	alert := &domain.Alert{
		OwnerID:   telegramUserID,
		TokenID:   coin.ID,
		TokenName: coin.Name,
		Threshold: decThreshold,
	}
	if err := u.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	return alert, nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, telegramUserID int64) ([]domain.Alert, error) {
	if err := u.requireUser(ctx, telegramUserID); err != nil {
		return nil, err
	}
	return u.alerts.ListByOwner(ctx, telegramUserID)
}

// RemoveAlert deletes an alert owned by the caller. Alerts owned by someone
// else are reported as not found.
func (u *AlertUsecase) RemoveAlert(ctx context.Context, telegramUserID int64, alertID string) error {
	if err := u.requireUser(ctx, telegramUserID); err != nil {
		return err
	}

	alert, err := u.alerts.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	if alert.OwnerID != telegramUserID {
		return ErrAlertNotFound
	}

	if err := u.alerts.Delete(ctx, alertID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}

	return nil
}

func (u *AlertUsecase) requireUser(ctx context.Context, telegramUserID int64) error {
	_, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotRegistered
		}
		return err
	}
	return nil
}

// ParseThreshold accepts a positive decimal price level.
func ParseThreshold(input string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(input), "$"))
	if err != nil {
		return decimal.Decimal{}, ErrInvalidThreshold
	}
	if !value.IsPositive() {
		return decimal.Decimal{}, ErrInvalidThreshold
	}
	return value, nil
}
