package execution

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/charleschow/coinone-dca/internal/adapters/outbound/coinone_http"
	"github.com/charleschow/coinone-dca/internal/core/tracking"
)

// PriceSource returns the best ask for target quoted in quote.
// Satisfied by *coinone_http.Client and *coinone_ws.Client.
type PriceSource interface {
	BestAsk(ctx context.Context, quote, target string) (decimal.Decimal, error)
}

// Exchange is the private order and account API. Satisfied by *coinone_http.Client.
type Exchange interface {
	PlaceOrder(ctx context.Context, req coinone_http.PlaceOrderRequest) (*coinone_http.OrderAck, error)
	GetOrderDetail(ctx context.Context, orderID, quote, target string) (*coinone_http.Order, error)
	GetBalances(ctx context.Context, currencies ...string) ([]coinone_http.Balance, error)
}

// Reporter renders the holdings report. Satisfied by *display.BalanceReporter.
type Reporter interface {
	Report(ctx context.Context, holdCurrency string, currencies ...string) (string, error)
}

// Notifier delivers a chat message. Satisfied by *discord.Notifier.
type Notifier interface {
	SendText(ctx context.Context, msg string) error
}

// OrderRecorder persists order attempts. Satisfied by *tracking.Store.
type OrderRecorder interface {
	RecordSubmission(sub tracking.Submission) error
	RecordResult(userOrderID string, order coinone_http.Order) error
}
