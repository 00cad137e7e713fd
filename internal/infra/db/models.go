package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type userModel struct {
	ID             uint   `gorm:"primaryKey"`
	TelegramUserID int64  `gorm:"uniqueIndex;not null"`
	Username       string `gorm:""`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userModel) TableName() string { return "users" }

type alertModel struct {
	ID        uint                `gorm:"primaryKey"`
	OwnerID   int64               `gorm:"index;not null"`
	TokenID   string              `gorm:"index;not null"`
	TokenName string              `gorm:"not null"`
	Threshold decimal.Decimal     `gorm:"type:numeric;not null"`
	LastPrice decimal.NullDecimal `gorm:"type:numeric"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (alertModel) TableName() string { return "alerts" }
