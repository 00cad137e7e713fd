package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrNoPriceData = errors.New("no price data")

type PriceQuote struct {
	TokenID  string
	Currency string
	Price    decimal.Decimal
}

type TokenInfo struct {
	Details *domain.CoinDetails
	Holders *int64
}

type MarketUsecase struct {
	market  domain.MarketData
	holders domain.HolderCounter
	logger  *zap.Logger
}

func NewMarketUsecase(market domain.MarketData, holders domain.HolderCounter, logger *zap.Logger) *MarketUsecase {
	return &MarketUsecase{market: market, holders: holders, logger: logger}
}

func (u *MarketUsecase) Currencies(ctx context.Context) ([]string, error) {
	return u.market.SupportedCurrencies(ctx)
}

// Prices looks up every comma separated token in cryptos against every comma
// separated currency in currencies. Quotes are ordered by token then currency.
func (u *MarketUsecase) Prices(ctx context.Context, currencies, cryptos string) ([]PriceQuote, error) {
	ids := splitList(cryptos)
	vs := splitList(currencies)
	if len(ids) == 0 || len(vs) == 0 {
		return nil, ErrNoPriceData
	}

	result, err := u.market.SimplePrice(ctx, ids, vs)
	if err != nil {
		return nil, err
	}

	quotes := make([]PriceQuote, 0, len(result))
	for tokenID, byCurrency := range result {
		for currency, price := range byCurrency {
			quotes = append(quotes, PriceQuote{TokenID: tokenID, Currency: currency, Price: price})
		}
	}
	if len(quotes) == 0 {
		return nil, ErrNoPriceData
	}

	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].TokenID != quotes[j].TokenID {
			return quotes[i].TokenID < quotes[j].TokenID
		}
		return quotes[i].Currency < quotes[j].Currency
	})
	return quotes, nil
}

// TokenInfo fetches coin details and, when the coin has an Ethereum or Solana
// contract, its holder count. Holder lookup failures leave Holders nil.
func (u *MarketUsecase) TokenInfo(ctx context.Context, tokenID string) (*TokenInfo, error) {
	details, err := u.market.Coin(ctx, strings.TrimSpace(tokenID))
	if err != nil {
		if errors.Is(err, domain.ErrCoinNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	info := &TokenInfo{Details: details}
	if u.holders == nil {
		return info, nil
	}

	var (
		count    int64
		countErr error
		platform string
	)
	switch {
	case details.Platforms["ethereum"] != "":
		platform = "ethereum"
		count, countErr = u.holders.EthereumHolders(ctx, details.Platforms["ethereum"])
	case details.Platforms["solana"] != "":
		platform = "solana"
		count, countErr = u.holders.SolanaHolders(ctx, details.Platforms["solana"])
	default:
		return info, nil
	}

	if countErr != nil {
		u.logger.Warn("holder count lookup failed", zap.String("token_id", details.ID), zap.String("platform", platform), zap.Error(countErr))
		return info, nil
	}
	info.Holders = &count
	return info, nil
}

func splitList(input string) []string {
	parts := strings.Split(strings.ToLower(input), ",")
	parts = lo.Map(parts, func(part string, _ int) string { return strings.TrimSpace(part) })
	return lo.Uniq(lo.Compact(parts))
}
