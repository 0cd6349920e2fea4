// Package config assembles the service configuration from defaults, an
// optional JSON or YAML file, and environment overrides, applied in that
// order. Secrets belong in the environment; config files may carry
// "${VAR}" placeholders for them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tradeops/riskgate/internal/riskcheck"
)

// Config is the full service configuration.
type Config struct {
	Environment string `json:"environment" yaml:"environment"`
	LogLevel    string `json:"log_level" yaml:"log_level"`

	Server        ServerConfig        `json:"server" yaml:"server"`
	Exchange      ExchangeConfig      `json:"exchange" yaml:"exchange"`
	Risk          RiskConfig          `json:"risk" yaml:"risk"`
	Consolidation ConsolidationConfig `json:"consolidation" yaml:"consolidation"`
	Journal       JournalConfig       `json:"journal" yaml:"journal"`
	Telegram      TelegramConfig      `json:"telegram" yaml:"telegram"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// ExchangeConfig holds the Bybit connection settings.
type ExchangeConfig struct {
	APIKey    string `json:"api_key" yaml:"api_key"`
	APISecret string `json:"api_secret" yaml:"api_secret"`
	Testnet   bool   `json:"testnet" yaml:"testnet"`
	Demo      bool   `json:"demo" yaml:"demo"`
	Category  string `json:"category" yaml:"category"`
}

// RiskConfig holds the pipeline limits. CallTimeout is a duration string
// such as "10s".
type RiskConfig struct {
	CallTimeout        string  `json:"call_timeout" yaml:"call_timeout"`
	MaxOpenPositions   int     `json:"max_open_positions" yaml:"max_open_positions"`
	MaxPositionRiskPct float64 `json:"max_position_risk_pct" yaml:"max_position_risk_pct"`
	CandleLimit        int     `json:"candle_limit" yaml:"candle_limit"`
}

// ConsolidationConfig selects the consolidation provider.
type ConsolidationConfig struct {
	Provider    string `json:"provider" yaml:"provider"` // "local" or "openai"
	OpenAIKey   string `json:"openai_key,omitempty" yaml:"openai_key,omitempty"`
	OpenAIModel string `json:"openai_model,omitempty" yaml:"openai_model,omitempty"`
}

// JournalConfig holds the decision journal settings.
type JournalConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// TelegramConfig holds the alert channel settings.
type TelegramConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Token   string `json:"token" yaml:"token"`
	ChatID  int64  `json:"chat_id" yaml:"chat_id"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Server:      ServerConfig{Addr: ":8080"},
		Exchange:    ExchangeConfig{Testnet: true, Category: "linear"},
		Risk: RiskConfig{
			CallTimeout:        "10s",
			MaxOpenPositions:   5,
			MaxPositionRiskPct: 10,
			CandleLimit:        100,
		},
		Consolidation: ConsolidationConfig{Provider: "local"},
		Journal:       JournalConfig{Enabled: true, Path: "riskgate.db"},
	}
}

// Load builds the configuration. A missing .env file is fine; a named
// config file that fails to read or parse is not.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional, system environment still applies

	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse yaml config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse json config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("RISKGATE_ENV", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)

	c.Exchange.APIKey = getEnv("BYBIT_API_KEY", scrubPlaceholder(c.Exchange.APIKey))
	c.Exchange.APISecret = getEnv("BYBIT_API_SECRET", scrubPlaceholder(c.Exchange.APISecret))
	c.Exchange.Testnet = getEnvBool("BYBIT_TESTNET", c.Exchange.Testnet)
	c.Exchange.Demo = getEnvBool("BYBIT_DEMO", c.Exchange.Demo)

	c.Risk.CallTimeout = getEnv("RISK_CALL_TIMEOUT", c.Risk.CallTimeout)
	c.Risk.MaxOpenPositions = getEnvInt("RISK_MAX_OPEN_POSITIONS", c.Risk.MaxOpenPositions)
	c.Risk.MaxPositionRiskPct = getEnvFloat("RISK_MAX_POSITION_RISK_PCT", c.Risk.MaxPositionRiskPct)

	c.Consolidation.Provider = getEnv("CONSOLIDATION_PROVIDER", c.Consolidation.Provider)
	c.Consolidation.OpenAIKey = getEnv("OPENAI_API_KEY", scrubPlaceholder(c.Consolidation.OpenAIKey))
	c.Consolidation.OpenAIModel = getEnv("OPENAI_MODEL", c.Consolidation.OpenAIModel)

	c.Journal.Path = getEnv("JOURNAL_PATH", c.Journal.Path)

	c.Telegram.Token = getEnv("TELEGRAM_BOT_TOKEN", scrubPlaceholder(c.Telegram.Token))
	c.Telegram.ChatID = getEnvInt64("TELEGRAM_CHAT_ID", c.Telegram.ChatID)
	if c.Telegram.Token != "" && c.Telegram.ChatID != 0 {
		c.Telegram.Enabled = true
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if _, err := c.PipelineConfig(); err != nil {
		return err
	}
	if c.Risk.MaxOpenPositions <= 0 {
		return fmt.Errorf("risk.max_open_positions must be positive, got %d", c.Risk.MaxOpenPositions)
	}
	if c.Risk.MaxPositionRiskPct <= 0 || c.Risk.MaxPositionRiskPct > 100 {
		return fmt.Errorf("risk.max_position_risk_pct must be in (0, 100], got %v", c.Risk.MaxPositionRiskPct)
	}

	switch c.Consolidation.Provider {
	case "local":
	case "openai":
		if c.Consolidation.OpenAIKey == "" {
			return fmt.Errorf("consolidation.provider is openai but OPENAI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unknown consolidation provider %q", c.Consolidation.Provider)
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}
	if c.Telegram.Enabled && (c.Telegram.Token == "" || c.Telegram.ChatID == 0) {
		return fmt.Errorf("telegram alerts need both TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
	}
	return nil
}

// PipelineConfig converts the risk section into the pipeline's config.
func (c *Config) PipelineConfig() (riskcheck.Config, error) {
	cfg := riskcheck.DefaultConfig()

	if c.Risk.CallTimeout != "" {
		timeout, err := time.ParseDuration(c.Risk.CallTimeout)
		if err != nil {
			return cfg, fmt.Errorf("risk.call_timeout: %w", err)
		}
		cfg.CallTimeout = timeout
	}
	if c.Risk.MaxOpenPositions > 0 {
		cfg.MaxOpenPositions = c.Risk.MaxOpenPositions
	}
	if c.Risk.MaxPositionRiskPct > 0 {
		cfg.MaxPositionRiskPct = c.Risk.MaxPositionRiskPct
	}
	if c.Risk.CandleLimit > 0 {
		cfg.CandleLimit = c.Risk.CandleLimit
	}
	return cfg, nil
}

// scrubPlaceholder drops "${VAR}" values so the environment lookup decides.
func scrubPlaceholder(val string) string {
	if strings.HasPrefix(val, "${") {
		return ""
	}
	return val
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
