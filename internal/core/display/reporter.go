package display

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/charleschow/coinone-dca/internal/adapters/outbound/coinone_http"
)

type ValuationMode string

const (
	// ValueAtAverage values each holding at its own average acquisition price.
	ValueAtAverage ValuationMode = "average"
	// ValueAtLive values the hold currency at 1 and every other holding at
	// the live best ask quoted in the hold currency.
	ValueAtLive ValuationMode = "live"
)

type BalanceFetcher interface {
	GetBalances(ctx context.Context, currencies ...string) ([]coinone_http.Balance, error)
}

type PriceSource interface {
	BestAsk(ctx context.Context, quote, target string) (decimal.Decimal, error)
}

// BalanceReporter fetches balances and renders the holdings report.
type BalanceReporter struct {
	balances BalanceFetcher
	prices   PriceSource
	mode     ValuationMode
}

func NewBalanceReporter(balances BalanceFetcher, prices PriceSource, mode ValuationMode) *BalanceReporter {
	if mode == "" {
		mode = ValueAtAverage
	}
	return &BalanceReporter{balances: balances, prices: prices, mode: mode}
}

func (r *BalanceReporter) Mode() ValuationMode { return r.mode }

// Rows fetches balances for currencies and attaches valuation prices.
func (r *BalanceReporter) Rows(ctx context.Context, holdCurrency string, currencies ...string) ([]BalanceRow, error) {
	balances, err := r.balances.GetBalances(ctx, currencies...)
	if err != nil {
		return nil, fmt.Errorf("fetch balances: %w", err)
	}

	rows := make([]BalanceRow, len(balances))
	for i, bal := range balances {
		rows[i] = BalanceRow{
			Currency:       strings.ToUpper(bal.Currency),
			Available:      bal.Available,
			AveragePrice:   bal.AveragePrice,
			ValuationPrice: bal.AveragePrice,
		}
	}

	if r.mode != ValueAtLive {
		return rows, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range rows {
		if strings.EqualFold(rows[i].Currency, holdCurrency) {
			rows[i].ValuationPrice = decimal.NewFromInt(1)
			continue
		}
		i := i // per-iteration copy; go directive is 1.21 (pre-1.22 loopvar semantics)
		g.Go(func() error {
			ask, err := r.prices.BestAsk(gctx, holdCurrency, rows[i].Currency)
			if err != nil {
				return fmt.Errorf("live price %s/%s: %w", rows[i].Currency, holdCurrency, err)
			}
			rows[i].ValuationPrice = ask
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Report returns the rendered holdings report.
func (r *BalanceReporter) Report(ctx context.Context, holdCurrency string, currencies ...string) (string, error) {
	rows, err := r.Rows(ctx, holdCurrency, currencies...)
	if err != nil {
		return "", err
	}
	return BalanceReport(rows, strings.ToUpper(holdCurrency)), nil
}
