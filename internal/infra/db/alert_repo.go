package db

import (
	"context"
	"errors"
	"strconv"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.ID = formatID(model.ID)
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *AlertRepository) Get(ctx context.Context, id string) (*domain.Alert, error) {
	modelID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	var model alertModel
	if err := r.db.WithContext(ctx).First(&model, modelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	alert := mapAlertToDomain(model)
	return &alert, nil
}

func (r *AlertRepository) ListAll(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

// Update only writes last_price; the other columns are immutable after creation.
func (r *AlertRepository) Update(ctx context.Context, alert domain.Alert) error {
	modelID, ok := parseID(alert.ID)
	if !ok {
		return domain.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&alertModel{}).Where("id = ?", modelID).Update("last_price", toNullDecimal(alert.LastPrice))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	modelID, ok := parseID(id)
	if !ok {
		return domain.ErrNotFound
	}
	result := r.db.WithContext(ctx).Delete(&alertModel{}, modelID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, mapAlertToDomain(model))
	}
	return alerts
}

func mapAlertToDomain(model alertModel) domain.Alert {
	var lastPrice *decimal.Decimal
	if model.LastPrice.Valid {
		value := model.LastPrice.Decimal
		lastPrice = &value
	}
	return domain.Alert{
		ID:        formatID(model.ID),
		OwnerID:   model.OwnerID,
		TokenID:   model.TokenID,
		TokenName: model.TokenName,
		Threshold: model.Threshold,
		LastPrice: lastPrice,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func mapAlertToModel(alert domain.Alert) alertModel {
	modelID, _ := parseID(alert.ID)
	return alertModel{
		ID:        modelID,
		OwnerID:   alert.OwnerID,
		TokenID:   alert.TokenID,
		TokenName: alert.TokenName,
		Threshold: alert.Threshold,
		LastPrice: toNullDecimal(alert.LastPrice),
		CreatedAt: alert.CreatedAt,
		UpdatedAt: alert.UpdatedAt,
	}
}

func toNullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *value, Valid: true}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseID(id string) (uint, bool) {
	value, err := strconv.ParseUint(id, 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}
