package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrRateLimited = errors.New("coingecko rate limit exceeded")

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) SupportedCurrencies(ctx context.Context) ([]string, error) {
	var currencies []string
	if err := c.get(ctx, "/simple/supported_vs_currencies", nil, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

// SimplePrice returns prices keyed by coin id then currency. Null prices are
// dropped, so a missing key always means no price.
func (c *Client) SimplePrice(ctx context.Context, ids, vsCurrencies []string) (map[string]map[string]decimal.Decimal, error) {
	result := make(map[string]map[string]decimal.Decimal)
	if len(ids) == 0 || len(vsCurrencies) == 0 {
		return result, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", strings.Join(vsCurrencies, ","))

	var payload map[string]map[string]NullableDecimal
	if err := c.get(ctx, "/simple/price", query, &payload); err != nil {
		return nil, err
	}

	for id, byCurrency := range payload {
		for currency, price := range byCurrency {
			if !price.Valid {
				continue
			}
			if result[id] == nil {
				result[id] = make(map[string]decimal.Decimal)
			}
			result[id][currency] = price.Decimal
		}
	}
	return result, nil
}

func (c *Client) Prices(ctx context.Context, tokenIDs []string, vsCurrency string) (map[string]decimal.Decimal, error) {
	byToken, err := c.SimplePrice(ctx, tokenIDs, []string{vsCurrency})
	if err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(byToken))
	for id, byCurrency := range byToken {
		if price, ok := byCurrency[vsCurrency]; ok {
			prices[id] = price
		}
	}
	return prices, nil
}

func (c *Client) CoinsList(ctx context.Context) ([]domain.CoinRef, error) {
	var payload []coinListEntry
	if err := c.get(ctx, "/coins/list", nil, &payload); err != nil {
		return nil, err
	}
	coins := make([]domain.CoinRef, 0, len(payload))
	for _, entry := range payload {
		coins = append(coins, domain.CoinRef{ID: entry.ID, Symbol: entry.Symbol, Name: entry.Name})
	}
	return coins, nil
}

func (c *Client) Coin(ctx context.Context, id string) (*domain.CoinDetails, error) {
	query := url.Values{}
	query.Set("localization", "false")
	query.Set("tickers", "false")
	query.Set("community_data", "false")
	query.Set("developer_data", "false")

	var payload coinResponse
	if err := c.get(ctx, "/coins/"+url.PathEscape(id), query, &payload); err != nil {
		return nil, err
	}

	return &domain.CoinDetails{
		ID:                       payload.ID,
		Symbol:                   payload.Symbol,
		Name:                     payload.Name,
		Platforms:                payload.Platforms,
		PriceUSD:                 payload.MarketData.CurrentPrice["usd"].Ptr(),
		MarketCapUSD:             payload.MarketData.MarketCap["usd"].Ptr(),
		VolumeUSD:                payload.MarketData.TotalVolume["usd"].Ptr(),
		PriceChangePercentage24h: payload.MarketData.PriceChangePercentage24h.Ptr(),
		PriceChangePercentage7d:  payload.MarketData.PriceChangePercentage7d.Ptr(),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	start := time.Now()
	c.logger.Debug("coingecko request start", zap.String("url", endpoint))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("coingecko request failed", zap.String("url", endpoint), zap.Error(err))
		return err
	}
	defer response.Body.Close()

	c.logger.Info(
		"coingecko request complete",
		zap.String("path", path),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	switch {
	case response.StatusCode == http.StatusNotFound:
		return domain.ErrCoinNotFound
	case response.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case response.StatusCode < 200 || response.StatusCode >= 300:
		return fmt.Errorf("coingecko error: status %d: %s", response.StatusCode, readErrorMessage(response.Body))
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode coingecko %s: %w", path, err)
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload errorResponse
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Status.ErrorMessage != "" {
			return payload.Status.ErrorMessage
		}
	}
	return strings.TrimSpace(string(data))
}
