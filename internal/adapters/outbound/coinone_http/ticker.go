package coinone_http

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderbookUnit struct {
	Price decimal.Decimal `json:"price"`
	Qty   decimal.Decimal `json:"qty"`
}

type Ticker struct {
	QuoteCurrency  string          `json:"quote_currency"`
	TargetCurrency string          `json:"target_currency"`
	Timestamp      int64           `json:"timestamp"`
	Last           decimal.Decimal `json:"last"`
	BestAsks       []OrderbookUnit `json:"best_asks"`
	BestBids       []OrderbookUnit `json:"best_bids"`
}

type TickerResponse struct {
	envelope
	Tickers []Ticker `json:"tickers"`
}

func tickerPath(quote, target string) string {
	return fmt.Sprintf("/public/v2/ticker_new/%s/%s", strings.ToUpper(quote), strings.ToUpper(target))
}

func (c *Client) GetTicker(ctx context.Context, quote, target string) (*Ticker, error) {
	path := tickerPath(quote, target)
	body, status, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp TickerResponse
	if err := decode(path, status, body, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(path, resp.envelope, body)
	}
	if len(resp.Tickers) == 0 {
		return nil, fmt.Errorf("ticker %s/%s: no tickers in response", quote, target)
	}
	return &resp.Tickers[0], nil
}

// BestAsk returns the first entry of best_asks. The exchange lists the
// best level first; the list is not searched for a minimum.
func (c *Client) BestAsk(ctx context.Context, quote, target string) (decimal.Decimal, error) {
	t, err := c.GetTicker(ctx, quote, target)
	if err != nil {
		return decimal.Zero, err
	}
	if len(t.BestAsks) == 0 {
		return decimal.Zero, fmt.Errorf("ticker %s/%s: no asks", quote, target)
	}
	return t.BestAsks[0].Price, nil
}
