package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert is one user's watch on a token price threshold. LastPrice is nil
// until the evaluator has observed a price for the alert.
type Alert struct {
	ID        string
	OwnerID   int64
	TokenID   string
	TokenName string
	Threshold decimal.Decimal
	LastPrice *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
