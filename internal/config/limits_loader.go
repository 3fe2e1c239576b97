package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrencyLimits guards a single buy. Zero means unlimited.
type CurrencyLimits struct {
	// Skip the buy when the hold-currency balance is below this.
	MinHoldBalance float64 `yaml:"min_hold_balance"`
	// Refuse AMOUNT values above this.
	MaxAmount float64 `yaml:"max_amount"`
}

type BuyLimits struct {
	Default    CurrencyLimits            `yaml:"default"`
	Currencies map[string]CurrencyLimits `yaml:"currencies"`
}

func LoadBuyLimits(path string) (BuyLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BuyLimits{}, fmt.Errorf("read buy limits: %w", err)
	}

	var limits BuyLimits
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return BuyLimits{}, fmt.Errorf("parse buy limits: %w", err)
	}
	if limits.Default.MinHoldBalance < 0 || limits.Default.MaxAmount < 0 {
		return BuyLimits{}, fmt.Errorf("buy limits: default limits must not be negative")
	}
	for cur, cl := range limits.Currencies {
		if cl.MinHoldBalance < 0 || cl.MaxAmount < 0 {
			return BuyLimits{}, fmt.Errorf("buy limits: %s limits must not be negative", cur)
		}
	}

	return limits, nil
}

// For returns the limits for the target currency, falling back field by
// field to the default block.
func (bl BuyLimits) For(currency string) CurrencyLimits {
	out := bl.Default
	var (
		cl CurrencyLimits
		ok bool
	)
	for k, v := range bl.Currencies {
		if strings.EqualFold(k, currency) {
			cl, ok = v, true
			break
		}
	}
	if !ok {
		return out
	}
	if cl.MinHoldBalance > 0 {
		out.MinHoldBalance = cl.MinHoldBalance
	}
	if cl.MaxAmount > 0 {
		out.MaxAmount = cl.MaxAmount
	}
	return out
}
