package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	PriceSourceREST = "rest"
	PriceSourceWS   = "ws"

	ValuationAverage = "average"
	ValuationLive    = "live"
)

// Config is read once at process start and passed by value afterwards.
type Config struct {
	// Coinone API
	CoinoneBaseURL string
	CoinoneWSURL   string
	WSTimeoutSec   int
	AccessKey      string
	SecretKey      string

	// Discord webhook
	WebhookURL string

	// Order
	Amount       string
	BuyCurrency  string
	HoldCurrency string
	Active       bool

	PriceSource   string
	ValuationMode string

	// Reporting + persistence
	ReportTimezone string
	OrderStorePath string
	BuyLimitsPath  string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		CoinoneBaseURL: envStr("COINONE_BASE_URL", "https://api.coinone.co.kr"),
		CoinoneWSURL:   envStr("COINONE_WS_URL", "wss://stream.coinone.co.kr"),
		WSTimeoutSec:   envInt("COINONE_WS_TIMEOUT_SEC", 10),
		AccessKey:      envStr("API_ACCESS_KEY", ""),
		SecretKey:      envStr("API_SECRET_KEY", ""),

		WebhookURL: envStr("WEBHOOK_URL", ""),

		Amount:       envStr("AMOUNT", ""),
		BuyCurrency:  strings.ToUpper(envStr("CURRENCY_BUY", "BTC")),
		HoldCurrency: strings.ToUpper(envStr("CURRENCY_HOLD", "KRW")),
		Active:       envBool("IS_ACTIVE", false),

		PriceSource:   strings.ToLower(envStr("PRICE_SOURCE", PriceSourceREST)),
		ValuationMode: strings.ToLower(envStr("VALUATION_MODE", ValuationAverage)),

		ReportTimezone: envStr("REPORT_TIMEZONE", "Local"),
		OrderStorePath: envOptional("ORDER_STORE_PATH", "data/orders.db"),
		BuyLimitsPath:  os.Getenv("BUY_LIMITS_PATH"),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

// Validate checks the fields a run needs. Credentials and AMOUNT are only
// required when the job is active; an inactive run just posts a notice.
func (c Config) Validate() error {
	var errs []error

	switch c.PriceSource {
	case PriceSourceREST, PriceSourceWS:
	default:
		errs = append(errs, fmt.Errorf("PRICE_SOURCE must be %q or %q, got %q", PriceSourceREST, PriceSourceWS, c.PriceSource))
	}
	switch c.ValuationMode {
	case ValuationAverage, ValuationLive:
	default:
		errs = append(errs, fmt.Errorf("VALUATION_MODE must be %q or %q, got %q", ValuationAverage, ValuationLive, c.ValuationMode))
	}

	if c.Active {
		if c.AccessKey == "" {
			errs = append(errs, errors.New("API_ACCESS_KEY is not set"))
		}
		if c.SecretKey == "" {
			errs = append(errs, errors.New("API_SECRET_KEY is not set"))
		}
		if _, err := c.BuyAmount(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// BuyAmount parses AMOUNT as a positive fiat amount in the hold currency.
func (c Config) BuyAmount() (decimal.Decimal, error) {
	if c.Amount == "" {
		return decimal.Zero, errors.New("AMOUNT is not set")
	}
	amt, err := decimal.NewFromString(strings.TrimSpace(c.Amount))
	if err != nil {
		return decimal.Zero, fmt.Errorf("AMOUNT %q is not a number: %w", c.Amount, err)
	}
	if !amt.IsPositive() {
		return decimal.Zero, fmt.Errorf("AMOUNT must be positive, got %s", amt)
	}
	return amt, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envOptional distinguishes unset (fallback) from set-but-empty (disabled).
func envOptional(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

// envBool treats "true", "1" and "yes" (any case, surrounding whitespace
// ignored) as true. Anything else that is set is false.
func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return ParseTruthy(v)
}

func ParseTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
