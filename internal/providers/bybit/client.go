// Package bybit adapts the Bybit v5 unified trading API to the provider
// interfaces the risk pipeline consumes. All calls go through a shared rate
// limiter and bounded exponential retry; numeric fields arrive as strings
// and are parsed leniently the way the exchange documents them.
package bybit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tradeops/riskgate/internal/logger"
)

const demoBaseURL = "https://api-demo.bybit.com"

// Config holds the connection settings for the Bybit client.
type Config struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Testnet   bool   `json:"testnet"`
	Demo      bool   `json:"demo"`

	// Category selects the product line for market and position queries,
	// "linear" unless overridden.
	Category string `json:"category"`

	// AccountType selects the wallet scope, "UNIFIED" unless overridden.
	AccountType string `json:"account_type"`

	RequestsPerSec int           `json:"requests_per_sec"`
	RetryBudget    time.Duration `json:"retry_budget"`
}

func (c Config) normalized() Config {
	if c.Category == "" {
		c.Category = "linear"
	}
	if c.AccountType == "" {
		c.AccountType = "UNIFIED"
	}
	if c.RequestsPerSec <= 0 {
		c.RequestsPerSec = 5
	}
	if c.RetryBudget <= 0 {
		c.RetryBudget = 15 * time.Second
	}
	return c
}

// Client is the Bybit-backed implementation of the account, portfolio, risk
// metrics and market data providers.
type Client struct {
	httpClient *bybit_api.Client
	cfg        Config
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient creates a client against mainnet, testnet or the demo trading
// environment depending on the config flags.
func NewClient(cfg Config) *Client {
	cfg = cfg.normalized()

	var baseURL string
	switch {
	case cfg.Demo:
		baseURL = demoBaseURL
	case cfg.Testnet:
		baseURL = bybit_api.TESTNET
	default:
		baseURL = bybit_api.MAINNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		cfg.APIKey,
		cfg.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsPerSec),
		log:        logger.Component("bybit"),
	}
}

// Environment names the endpoint the client talks to.
func (c *Client) Environment() string {
	switch {
	case c.cfg.Demo:
		return "demo"
	case c.cfg.Testnet:
		return "testnet"
	default:
		return "mainnet"
	}
}

// decodeResult unwraps a v5 envelope and unmarshals its result payload into
// out. Every endpoint returns result as loosely typed JSON, so decoding goes
// through a marshal round trip.
func decodeResult(response interface{}, out interface{}) error {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", response)
	}
	if serverResp.RetCode != 0 {
		return &apiError{Code: serverResp.RetCode, Message: serverResp.RetMsg}
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := json.Unmarshal(resultBytes, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}

// The exchange reports every number as a string; empty means absent.

func parseFloat64(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseTimestamp(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	msec, _ := strconv.ParseInt(ts, 10, 64)
	return time.UnixMilli(msec)
}
