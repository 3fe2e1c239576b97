package coinone_http

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/charleschow/coinone-dca/internal/telemetry"
)

const (
	orderPath       = "/v2.1/order"
	orderDetailPath = "/v2.1/order/detail"

	SideBuy    = "BUY"
	TypeMarket = "MARKET"
)

// PlaceOrderRequest is a MARKET BUY spending Amount of the quote currency.
// LimitPrice caps the price the market order may fill at.
type PlaceOrderRequest struct {
	QuoteCurrency  string
	TargetCurrency string
	Amount         decimal.Decimal
	LimitPrice     decimal.Decimal
	UserOrderID    string
}

func (r PlaceOrderRequest) payload() map[string]any {
	return map[string]any{
		"quote_currency":  strings.ToUpper(r.QuoteCurrency),
		"target_currency": strings.ToUpper(r.TargetCurrency),
		"type":            TypeMarket,
		"side":            SideBuy,
		"amount":          r.Amount.String(),
		"limit_price":     r.LimitPrice.String(),
		"user_order_id":   r.UserOrderID,
	}
}

// OrderAck is the exchange's answer to an order submission. A rejection
// is not an error: callers check Succeeded and report Raw.
type OrderAck struct {
	Result    string
	ErrorCode string
	OrderID   string
	Raw       json.RawMessage
}

func (a *OrderAck) Succeeded() bool { return a.Result == resultSuccess }

type placeOrderResponse struct {
	envelope
	OrderID string `json:"order_id"`
}

func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderAck, error) {
	body, status, err := c.Post(ctx, orderPath, req.payload())
	if err != nil {
		return nil, err
	}

	var resp placeOrderResponse
	if err := decode(orderPath, status, body, &resp); err != nil {
		return nil, err
	}

	ack := &OrderAck{
		Result:    resp.Result,
		ErrorCode: string(resp.ErrorCode),
		OrderID:   resp.OrderID,
		Raw:       json.RawMessage(body),
	}
	if ack.Succeeded() {
		telemetry.Metrics.OrdersSent.Inc()
		telemetry.Infof("coinone: order placed %s/%s amount=%s limit=%s -> %s",
			req.TargetCurrency, req.QuoteCurrency, req.Amount, req.LimitPrice, ack.OrderID)
	} else {
		telemetry.Metrics.OrderRejections.Inc()
		telemetry.Warnf("coinone: order rejected %s/%s result=%s error_code=%s",
			req.TargetCurrency, req.QuoteCurrency, ack.Result, ack.ErrorCode)
	}
	return ack, nil
}

// Order is the execution state returned by /v2.1/order/detail.
type Order struct {
	OrderID              string          `json:"order_id"`
	UserOrderID          string          `json:"user_order_id"`
	Type                 string          `json:"type"`
	Side                 string          `json:"side"`
	Status               string          `json:"status"`
	QuoteCurrency        string          `json:"quote_currency"`
	TargetCurrency       string          `json:"target_currency"`
	AverageExecutedPrice decimal.Decimal `json:"average_executed_price"`
	LimitPrice           decimal.Decimal `json:"limit_price"`
	OriginalQty          decimal.Decimal `json:"original_qty"`
	ExecutedQty          decimal.Decimal `json:"executed_qty"`
	RemainQty            decimal.Decimal `json:"remain_qty"`
	TradedAmount         decimal.Decimal `json:"traded_amount"`
	Fee                  decimal.Decimal `json:"fee"`
	FeeRate              decimal.Decimal `json:"fee_rate"`
	OrderedAt            int64           `json:"ordered_at"` // epoch ms
	UpdatedAt            int64           `json:"updated_at"` // epoch ms
}

type OrderDetailResponse struct {
	envelope
	Order Order `json:"order"`
}

func (c *Client) GetOrderDetail(ctx context.Context, orderID, quote, target string) (*Order, error) {
	body, status, err := c.Post(ctx, orderDetailPath, map[string]any{
		"order_id":        orderID,
		"quote_currency":  strings.ToUpper(quote),
		"target_currency": strings.ToUpper(target),
	})
	if err != nil {
		return nil, err
	}

	var resp OrderDetailResponse
	if err := decode(orderDetailPath, status, body, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(orderDetailPath, resp.envelope, body)
	}

	telemetry.Debugf("coinone: order detail %s", prettyJSON(body))
	return &resp.Order, nil
}

func prettyJSON(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}
