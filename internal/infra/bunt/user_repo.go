package bunt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/tidwall/buntdb"
)

var ErrUserExists = errors.New("user already exists")

type userDocument struct {
	Seq            int64     `json:"seq"`
	TelegramUserID int64     `json:"telegram_user_id"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramUserID int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user *domain.User
	err := r.store.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(userKey(telegramUserID))
		if err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var doc userDocument
		if err := json.Unmarshal([]byte(value), &doc); err != nil {
			return fmt.Errorf("decode user %d: %w", telegramUserID, err)
		}
		user = &domain.User{
			ID:             strconv.FormatInt(doc.Seq, 10),
			TelegramUserID: doc.TelegramUserID,
			Username:       doc.Username,
			CreatedAt:      doc.CreatedAt,
			UpdatedAt:      doc.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.db.Update(func(tx *buntdb.Tx) error {
		key := userKey(user.TelegramUserID)
		if _, err := tx.Get(key); err == nil {
			return ErrUserExists
		} else if !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}

		seq, err := nextSeq(tx, userSeqKey)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		content, err := json.Marshal(userDocument{
			Seq:            seq,
			TelegramUserID: user.TelegramUserID,
			Username:       user.Username,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		if _, _, err := tx.Set(key, string(content), nil); err != nil {
			return fmt.Errorf("failed to store user: %w", err)
		}

		user.ID = strconv.FormatInt(seq, 10)
		user.CreatedAt = now
		user.UpdatedAt = now
		return nil
	})
}

func userKey(telegramUserID int64) string {
	return userPrefix + strconv.FormatInt(telegramUserID, 10)
}
