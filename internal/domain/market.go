package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrCoinNotFound = errors.New("coin not found")

// PriceSource answers batch spot price lookups. Tokens missing from the
// returned map have no price available.
type PriceSource interface {
	Prices(ctx context.Context, tokenIDs []string, vsCurrency string) (map[string]decimal.Decimal, error)
}

type CoinRef struct {
	ID     string
	Symbol string
	Name   string
}

type CoinDetails struct {
	ID                       string
	Symbol                   string
	Name                     string
	Platforms                map[string]string
	PriceUSD                 *decimal.Decimal
	MarketCapUSD             *decimal.Decimal
	VolumeUSD                *decimal.Decimal
	PriceChangePercentage24h *decimal.Decimal
	PriceChangePercentage7d  *decimal.Decimal
}

type MarketData interface {
	PriceSource
	SupportedCurrencies(ctx context.Context) ([]string, error)
	SimplePrice(ctx context.Context, ids, vsCurrencies []string) (map[string]map[string]decimal.Decimal, error)
	CoinsList(ctx context.Context) ([]CoinRef, error)
	Coin(ctx context.Context, id string) (*CoinDetails, error)
}

type HolderCounter interface {
	EthereumHolders(ctx context.Context, contract string) (int64, error)
	SolanaHolders(ctx context.Context, mint string) (int64, error)
}
