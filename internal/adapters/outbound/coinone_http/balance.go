package coinone_http

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

const balancePath = "/v2.1/account/balance"

type Balance struct {
	Currency     string          `json:"currency"`
	Available    decimal.Decimal `json:"available"`
	Limit        decimal.Decimal `json:"limit"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

type BalanceResponse struct {
	envelope
	Balances []Balance `json:"balances"`
}

// GetBalances returns balances for the given currencies in the order the
// exchange lists them.
func (c *Client) GetBalances(ctx context.Context, currencies ...string) ([]Balance, error) {
	upper := make([]string, len(currencies))
	for i, cur := range currencies {
		upper[i] = strings.ToUpper(cur)
	}

	body, status, err := c.Post(ctx, balancePath, map[string]any{
		"currencies": upper,
	})
	if err != nil {
		return nil, err
	}

	var resp BalanceResponse
	if err := decode(balancePath, status, body, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(balancePath, resp.envelope, body)
	}
	return resp.Balances, nil
}
