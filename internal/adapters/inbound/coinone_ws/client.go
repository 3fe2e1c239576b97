package coinone_ws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/charleschow/coinone-dca/internal/telemetry"
)

// Client reads a single ORDERBOOK snapshot from the Coinone public
// WebSocket feed. It holds no connection between calls.
type Client struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
}

func NewClient(wsURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:     wsURL,
		timeout: timeout,
		dialer:  websocket.DefaultDialer,
	}
}

type topic struct {
	QuoteCurrency  string `json:"quote_currency"`
	TargetCurrency string `json:"target_currency"`
}

type subscribeRequest struct {
	RequestType string `json:"request_type"`
	Channel     string `json:"channel"`
	Topic       topic  `json:"topic"`
}

type orderbookLevel struct {
	Price decimal.Decimal `json:"price"`
	Qty   decimal.Decimal `json:"qty"`
}

type message struct {
	ResponseType string `json:"response_type"`
	Channel      string `json:"channel"`
	ErrorCode    int    `json:"error_code"`
	Message      string `json:"message"`
	Data         struct {
		QuoteCurrency  string           `json:"quote_currency"`
		TargetCurrency string           `json:"target_currency"`
		Timestamp      int64            `json:"timestamp"`
		Asks           []orderbookLevel `json:"asks"`
		Bids           []orderbookLevel `json:"bids"`
	} `json:"data"`
}

// BestAsk subscribes to the pair's orderbook, waits for the first DATA
// frame and returns asks[0], the same index the REST ticker uses.
func (c *Client) BestAsk(ctx context.Context, quote, target string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	conn.SetReadDeadline(deadline)
	conn.SetWriteDeadline(deadline)

	quote, target = strings.ToUpper(quote), strings.ToUpper(target)
	if err := conn.WriteJSON(subscribeRequest{
		RequestType: "SUBSCRIBE",
		Channel:     "ORDERBOOK",
		Topic:       topic{QuoteCurrency: quote, TargetCurrency: target},
	}); err != nil {
		return decimal.Zero, fmt.Errorf("subscribe orderbook %s/%s: %w", quote, target, err)
	}

	start := time.Now()
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return decimal.Zero, fmt.Errorf("orderbook %s/%s: no snapshot within %s", quote, target, c.timeout)
			}
			return decimal.Zero, fmt.Errorf("read orderbook %s/%s: %w", quote, target, err)
		}

		switch msg.ResponseType {
		case "ERROR":
			return decimal.Zero, fmt.Errorf("orderbook %s/%s: error_code=%d %s", quote, target, msg.ErrorCode, msg.Message)
		case "DATA":
		default:
			telemetry.Debugf("coinone_ws: skipping %s frame", msg.ResponseType)
			continue
		}

		if msg.Channel != "ORDERBOOK" ||
			!strings.EqualFold(msg.Data.QuoteCurrency, quote) ||
			!strings.EqualFold(msg.Data.TargetCurrency, target) {
			continue
		}
		if len(msg.Data.Asks) == 0 {
			return decimal.Zero, fmt.Errorf("orderbook %s/%s: no asks", quote, target)
		}

		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		telemetry.Infof("coinone_ws: orderbook %s/%s snapshot in %s", target, quote, time.Since(start))
		return msg.Data.Asks[0].Price, nil
	}
}
