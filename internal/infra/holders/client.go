package holders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("holder source not configured")
	ErrNoHolderData  = errors.New("no holder data")
)

type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

type heliusResponse struct {
	TotalHolders json.Number `json:"totalHolders"`
}

type Config struct {
	EtherscanBaseURL string
	EtherscanAPIKey  string
	HeliusBaseURL    string
	HeliusAPIKey     string
	Timeout          time.Duration
}

// Client counts token holders: Etherscan for Ethereum contracts, Helius for
// Solana mints.
type Client struct {
	etherscan    *resty.Client
	etherscanKey string
	helius       *resty.Client
	heliusKey    string
	logger       *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		etherscan:    resty.New().SetBaseURL(strings.TrimRight(cfg.EtherscanBaseURL, "/")).SetTimeout(cfg.Timeout),
		etherscanKey: cfg.EtherscanAPIKey,
		helius:       resty.New().SetBaseURL(strings.TrimRight(cfg.HeliusBaseURL, "/")).SetTimeout(cfg.Timeout),
		heliusKey:    cfg.HeliusAPIKey,
		logger:       logger,
	}
}

func (c *Client) EthereumHolders(ctx context.Context, contract string) (int64, error) {
	if c.etherscanKey == "" {
		return 0, ErrNotConfigured
	}

	var payload etherscanResponse
	response, err := c.etherscan.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"module":          "token",
			"action":          "tokenholdercount",
			"contractaddress": contract,
			"apikey":          c.etherscanKey,
		}).
		SetResult(&payload).
		Get("/api")
	if err != nil {
		return 0, fmt.Errorf("etherscan request: %w", err)
	}
	c.logger.Debug("etherscan request complete", zap.String("contract", contract), zap.Int("status", response.StatusCode()))
	if response.IsError() {
		return 0, fmt.Errorf("etherscan error: status %d", response.StatusCode())
	}
	if payload.Status != "1" {
		return 0, fmt.Errorf("%w: etherscan %s", ErrNoHolderData, payload.Message)
	}

	count, err := strconv.ParseInt(strings.TrimSpace(payload.Result), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: etherscan result %q", ErrNoHolderData, payload.Result)
	}
	return count, nil
}

func (c *Client) SolanaHolders(ctx context.Context, mint string) (int64, error) {
	if c.heliusKey == "" {
		return 0, ErrNotConfigured
	}

	var payload heliusResponse
	response, err := c.helius.R().
		SetContext(ctx).
		SetPathParam("mint", mint).
		SetQueryParam("api-key", c.heliusKey).
		SetResult(&payload).
		Get("/v0/tokens/{mint}/holders")
	if err != nil {
		return 0, fmt.Errorf("helius request: %w", err)
	}
	c.logger.Debug("helius request complete", zap.String("mint", mint), zap.Int("status", response.StatusCode()))
	if response.IsError() {
		return 0, fmt.Errorf("helius error: status %d", response.StatusCode())
	}

	count, err := payload.TotalHolders.Int64()
	if err != nil || count == 0 {
		return 0, ErrNoHolderData
	}
	return count, nil
}
