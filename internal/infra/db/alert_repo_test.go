package db

import (
	"testing"
	"time"

	"github.com/NasaVasa/coinwatch/internal/config"
	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, ok := parseID("42")
	require.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "42", formatID(id))

	for _, bad := range []string{"", "0", "-1", "abc", "65a1f0c2e4b0"} {
		_, ok := parseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestMapAlert_LastPriceAbsentVsZero(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	model := alertModel{
		ID:        7,
		OwnerID:   100,
		TokenID:   "bitcoin",
		TokenName: "Bitcoin",
		Threshold: decimal.RequireFromString("50000"),
		CreatedAt: created,
	}

	alert := mapAlertToDomain(model)
	assert.Equal(t, "7", alert.ID)
	assert.Nil(t, alert.LastPrice)
	assert.Equal(t, created, alert.CreatedAt)

	model.LastPrice = decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	alert = mapAlertToDomain(model)
	require.NotNil(t, alert.LastPrice)
	assert.True(t, alert.LastPrice.IsZero())

	back := mapAlertToModel(alert)
	assert.Equal(t, uint(7), back.ID)
	assert.True(t, back.LastPrice.Valid)
	assert.True(t, back.Threshold.Equal(decimal.RequireFromString("50000")))
}

func TestToNullDecimal(t *testing.T) {
	assert.False(t, toNullDecimal(nil).Valid)

	price := decimal.RequireFromString("0.000123")
	nd := toNullDecimal(&price)
	assert.True(t, nd.Valid)
	assert.True(t, nd.Decimal.Equal(price))
}

func TestMapAlertToModel_OpaqueIDFromOtherStore(t *testing.T) {
	model := mapAlertToModel(domain.Alert{ID: "not-a-number", TokenID: "eth"})
	assert.Equal(t, uint(0), model.ID)
}

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBHost:     "db.internal",
		DBPort:     6432,
		DBUser:     "watcher",
		DBPassword: "secret",
		DBName:     "coins",
		DBSSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal user=watcher password=secret dbname=coins port=6432 sslmode=require TimeZone=UTC",
		DSN(cfg),
	)
}
