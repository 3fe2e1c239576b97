package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CURRENCY_BUY", "CURRENCY_HOLD", "IS_ACTIVE", "PRICE_SOURCE", "VALUATION_MODE", "COINONE_BASE_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.BuyCurrency != "BTC" || cfg.HoldCurrency != "KRW" {
		t.Errorf("currencies = %s/%s, want BTC/KRW", cfg.BuyCurrency, cfg.HoldCurrency)
	}
	if cfg.Active {
		t.Error("Active should default to false")
	}
	if cfg.PriceSource != PriceSourceREST || cfg.ValuationMode != ValuationAverage {
		t.Errorf("price source/valuation = %s/%s", cfg.PriceSource, cfg.ValuationMode)
	}
	if cfg.CoinoneBaseURL != "https://api.coinone.co.kr" {
		t.Errorf("base url = %s", cfg.CoinoneBaseURL)
	}
}

func TestOrderStorePathEmptyDisables(t *testing.T) {
	t.Setenv("ORDER_STORE_PATH", "")
	os.Unsetenv("ORDER_STORE_PATH")
	if got := Load().OrderStorePath; got != "data/orders.db" {
		t.Errorf("unset ORDER_STORE_PATH = %q, want default", got)
	}

	t.Setenv("ORDER_STORE_PATH", "")
	if got := Load().OrderStorePath; got != "" {
		t.Errorf("empty ORDER_STORE_PATH = %q, want disabled", got)
	}
}

func TestLoadUppercasesCurrencies(t *testing.T) {
	t.Setenv("CURRENCY_BUY", "eth")
	t.Setenv("CURRENCY_HOLD", "krw")

	cfg := Load()
	if cfg.BuyCurrency != "ETH" || cfg.HoldCurrency != "KRW" {
		t.Errorf("currencies = %s/%s, want ETH/KRW", cfg.BuyCurrency, cfg.HoldCurrency)
	}
}

func TestIsActiveTruthyValues(t *testing.T) {
	cases := map[string]bool{
		"true":     true,
		"TRUE":     true,
		" yes ":    true,
		"Yes":      true,
		"1":        true,
		"\t1\n":    true,
		"false":    false,
		"0":        false,
		"no":       false,
		"on":       false,
		"":         false,
		"true-ish": false,
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("IS_ACTIVE", raw)
			if got := Load().Active; got != want {
				t.Errorf("IS_ACTIVE=%q -> %v, want %v", raw, got, want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		AccessKey:     "access",
		SecretKey:     "secret",
		Amount:        "10000",
		Active:        true,
		PriceSource:   PriceSourceREST,
		ValuationMode: ValuationAverage,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	inactive := Config{PriceSource: PriceSourceREST, ValuationMode: ValuationAverage}
	if err := inactive.Validate(); err != nil {
		t.Errorf("inactive config without credentials rejected: %v", err)
	}

	bad := base
	bad.SecretKey = ""
	bad.Amount = "-5"
	bad.PriceSource = "carrier-pigeon"
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"API_SECRET_KEY", "AMOUNT must be positive", "PRICE_SOURCE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestBuyAmount(t *testing.T) {
	amt, err := Config{Amount: " 15000.5 "}.BuyAmount()
	if err != nil {
		t.Fatal(err)
	}
	if amt.String() != "15000.5" {
		t.Errorf("amount = %s", amt)
	}

	if _, err := (Config{Amount: "lots"}).BuyAmount(); err == nil {
		t.Error("expected parse error for non-numeric AMOUNT")
	}
	if _, err := (Config{}).BuyAmount(); err == nil {
		t.Error("expected error for missing AMOUNT")
	}
}

func TestLoadBuyLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	data := `
default:
  min_hold_balance: 5000
  max_amount: 100000
currencies:
  btc:
    max_amount: 50000
  ETH:
    min_hold_balance: 20000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	limits, err := LoadBuyLimits(path)
	if err != nil {
		t.Fatalf("LoadBuyLimits: %v", err)
	}

	btc := limits.For("BTC")
	if btc.MinHoldBalance != 5000 || btc.MaxAmount != 50000 {
		t.Errorf("BTC limits = %+v", btc)
	}
	eth := limits.For("eth")
	if eth.MinHoldBalance != 20000 || eth.MaxAmount != 100000 {
		t.Errorf("ETH limits = %+v", eth)
	}
	xrp := limits.For("XRP")
	if xrp != limits.Default {
		t.Errorf("XRP limits = %+v, want default %+v", xrp, limits.Default)
	}
}

func TestLoadBuyLimitsRejectsNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte("default:\n  max_amount: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBuyLimits(path); err == nil {
		t.Error("expected error for negative limit")
	}
}

func TestLoadBuyLimitsMissingFile(t *testing.T) {
	if _, err := LoadBuyLimits(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
