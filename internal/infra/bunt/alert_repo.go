package bunt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/tidwall/buntdb"
)

type alertDocument struct {
	Seq       int64            `json:"seq"`
	OwnerID   int64            `json:"owner_id"`
	TokenID   string           `json:"token_id"`
	TokenName string           `json:"token_name"`
	Threshold decimal.Decimal  `json:"threshold"`
	LastPrice *decimal.Decimal `json:"last_price,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type AlertRepository struct {
	store *Store
}

func NewAlertRepository(store *Store) *AlertRepository {
	return &AlertRepository{store: store}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.db.Update(func(tx *buntdb.Tx) error {
		seq, err := nextSeq(tx, alertSeqKey)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		doc := alertDocument{
			Seq:       seq,
			OwnerID:   alert.OwnerID,
			TokenID:   alert.TokenID,
			TokenName: alert.TokenName,
			Threshold: alert.Threshold,
			LastPrice: alert.LastPrice,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := putAlert(tx, doc); err != nil {
			return err
		}

		alert.ID = strconv.FormatInt(seq, 10)
		alert.CreatedAt = now
		alert.UpdatedAt = now
		return nil
	})
}

func (r *AlertRepository) Get(ctx context.Context, id string) (*domain.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var alert *domain.Alert
	err := r.store.db.View(func(tx *buntdb.Tx) error {
		doc, err := getAlert(tx, id)
		if err != nil {
			return err
		}
		mapped := doc.toDomain()
		alert = &mapped
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

func (r *AlertRepository) ListAll(ctx context.Context) ([]domain.Alert, error) {
	return r.list(ctx, func(alertDocument) bool { return true })
}

func (r *AlertRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Alert, error) {
	return r.list(ctx, func(doc alertDocument) bool { return doc.OwnerID == ownerID })
}

// Update persists LastPrice; the remaining fields are immutable once created.
func (r *AlertRepository) Update(ctx context.Context, alert domain.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.db.Update(func(tx *buntdb.Tx) error {
		doc, err := getAlert(tx, alert.ID)
		if err != nil {
			return err
		}
		doc.LastPrice = alert.LastPrice
		doc.UpdatedAt = time.Now().UTC()
		return putAlert(tx, doc)
	})
}

func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.db.Update(func(tx *buntdb.Tx) error {
		if _, err := tx.Delete(alertPrefix + id); err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return nil
	})
}

func (r *AlertRepository) list(ctx context.Context, keep func(alertDocument) bool) ([]domain.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	alerts := make([]domain.Alert, 0)
	err := r.store.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.Ascend(alertSeqIndex, func(key, value string) bool {
			var doc alertDocument
			if err := json.Unmarshal([]byte(value), &doc); err != nil {
				decodeErr = fmt.Errorf("decode %s: %w", key, err)
				return false
			}
			if keep(doc) {
				alerts = append(alerts, doc.toDomain())
			}
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func getAlert(tx *buntdb.Tx, id string) (alertDocument, error) {
	value, err := tx.Get(alertPrefix + id)
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return alertDocument{}, domain.ErrNotFound
		}
		return alertDocument{}, err
	}
	var doc alertDocument
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return alertDocument{}, fmt.Errorf("decode alert %s: %w", id, err)
	}
	return doc, nil
}

func putAlert(tx *buntdb.Tx, doc alertDocument) error {
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	if _, _, err := tx.Set(alertPrefix+strconv.FormatInt(doc.Seq, 10), string(content), nil); err != nil {
		return fmt.Errorf("failed to store alert: %w", err)
	}
	return nil
}

func (d alertDocument) toDomain() domain.Alert {
	return domain.Alert{
		ID:        strconv.FormatInt(d.Seq, 10),
		OwnerID:   d.OwnerID,
		TokenID:   d.TokenID,
		TokenName: d.TokenName,
		Threshold: d.Threshold,
		LastPrice: d.LastPrice,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
