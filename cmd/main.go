package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charleschow/coinone-dca/internal/adapters/coinone_auth"
	"github.com/charleschow/coinone-dca/internal/adapters/inbound/coinone_ws"
	"github.com/charleschow/coinone-dca/internal/adapters/outbound/coinone_http"
	"github.com/charleschow/coinone-dca/internal/adapters/outbound/discord"
	"github.com/charleschow/coinone-dca/internal/config"
	"github.com/charleschow/coinone-dca/internal/core/display"
	"github.com/charleschow/coinone-dca/internal/core/execution"
	"github.com/charleschow/coinone-dca/internal/core/tracking"
	"github.com/charleschow/coinone-dca/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting auto-buy  buy=%s hold=%s active=%t price_source=%s valuation=%s",
		cfg.BuyCurrency, cfg.HoldCurrency, cfg.Active, cfg.PriceSource, cfg.ValuationMode)

	if err := cfg.Validate(); err != nil {
		telemetry.Errorf("Invalid configuration: %v", err)
		return 1
	}

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		telemetry.Errorf("REPORT_TIMEZONE %q: %v", cfg.ReportTimezone, err)
		return 1
	}

	// ── Buy limits ──────────────────────────────────────────────
	var limits config.CurrencyLimits
	if cfg.BuyLimitsPath != "" {
		bl, err := config.LoadBuyLimits(cfg.BuyLimitsPath)
		if err != nil {
			telemetry.Errorf("Failed to load buy limits: %v", err)
			return 1
		}
		limits = bl.For(cfg.BuyCurrency)
		telemetry.Infof("Buy limits for %s  min_hold_balance=%g max_amount=%g",
			cfg.BuyCurrency, limits.MinHoldBalance, limits.MaxAmount)
	}

	// ── Coinone clients ─────────────────────────────────────────
	signer := coinone_auth.NewSigner(cfg.AccessKey, cfg.SecretKey)
	client := coinone_http.NewClient(cfg.CoinoneBaseURL, signer)

	var prices execution.PriceSource = client
	if cfg.PriceSource == config.PriceSourceWS {
		prices = coinone_ws.NewClient(cfg.CoinoneWSURL, time.Duration(cfg.WSTimeoutSec)*time.Second)
		telemetry.Infof("Price source: websocket orderbook %s", cfg.CoinoneWSURL)
	}

	notifier := discord.NewNotifier(cfg.WebhookURL)
	if !notifier.Enabled() {
		telemetry.Warnf("WEBHOOK_URL not set, messages will only be logged")
	}

	// ── Order history ───────────────────────────────────────────
	var recorder execution.OrderRecorder
	if cfg.OrderStorePath != "" {
		store, err := tracking.OpenStore(cfg.OrderStorePath)
		if err != nil {
			telemetry.Warnf("Order store disabled: %v", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	reporter := display.NewBalanceReporter(client, prices, display.ValuationMode(cfg.ValuationMode))

	// Validate already rejected a bad AMOUNT for active runs.
	amount, _ := cfg.BuyAmount()
	svc := execution.NewService(execution.Settings{
		Active:       cfg.Active,
		Amount:       amount,
		HoldCurrency: cfg.HoldCurrency,
		BuyCurrency:  cfg.BuyCurrency,
		Limits:       limits,
		Location:     loc,
	}, prices, client, reporter, notifier, recorder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, err := svc.Run(ctx)
	logSummary()
	if err != nil {
		telemetry.Errorf("Auto-buy failed: %v", err)
		return 1
	}
	telemetry.Infof("Auto-buy finished  outcome=%s", outcome)
	return 0
}

func logSummary() {
	m := &telemetry.Metrics
	telemetry.Infof("Run summary  exchange_calls=%d exchange_errors=%d orders=%d rejections=%d webhooks=%d webhook_failures=%d store_errors=%d latency_p50=%s latency_max=%s",
		m.ExchangeCalls.Value(),
		m.ExchangeErrors.Value(),
		m.OrdersSent.Value(),
		m.OrderRejections.Value(),
		m.WebhooksSent.Value(),
		m.WebhookFailures.Value(),
		m.StoreErrors.Value(),
		m.ExchangeLatency.P50(),
		m.ExchangeLatency.Max(),
	)
}
