package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/charleschow/coinone-dca/internal/adapters/outbound/coinone_http"
	"github.com/charleschow/coinone-dca/internal/config"
	"github.com/charleschow/coinone-dca/internal/core/display"
	"github.com/charleschow/coinone-dca/internal/core/tracking"
	"github.com/charleschow/coinone-dca/internal/telemetry"
)

var (
	_ Exchange      = (*coinone_http.Client)(nil)
	_ PriceSource   = (*coinone_http.Client)(nil)
	_ Reporter      = (*display.BalanceReporter)(nil)
	_ OrderRecorder = (*tracking.Store)(nil)
)

// DefaultSettleDelay is the single wait between submitting an order and
// reading its detail. There is no re-poll.
const DefaultSettleDelay = time.Second

// slippage caps the MARKET order at 3% above the fetched best ask.
var slippage = decimal.RequireFromString("1.03")

// LimitPrice returns ask x 1.03, exact in decimal.
func LimitPrice(ask decimal.Decimal) decimal.Decimal {
	return ask.Mul(slippage)
}

type Outcome string

const (
	OutcomeDisabled  Outcome = "disabled"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeRejected  Outcome = "rejected"
	OutcomeSubmitted Outcome = "submitted"
)

// Settings are the per-run order parameters, fixed at process start.
type Settings struct {
	Active       bool
	Amount       decimal.Decimal
	HoldCurrency string
	BuyCurrency  string
	Limits       config.CurrencyLimits
	Location     *time.Location
}

// Service runs one auto-buy: price, order, settle, detail, report.
type Service struct {
	settings Settings
	prices   PriceSource
	exchange Exchange
	reporter Reporter
	notifier Notifier
	recorder OrderRecorder

	settleDelay time.Duration
	newOrderID  func() string
	now         func() time.Time
}

// NewService wires a run. recorder may be nil.
func NewService(settings Settings, prices PriceSource, exchange Exchange, reporter Reporter, notifier Notifier, recorder OrderRecorder) *Service {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &Service{
		settings:    settings,
		prices:      prices,
		exchange:    exchange,
		reporter:    reporter,
		notifier:    notifier,
		recorder:    recorder,
		settleDelay: DefaultSettleDelay,
		newOrderID:  uuid.NewString,
		now:         time.Now,
	}
}

// Run executes the job once. A rejected order is reported to the webhook
// and is not an error; transport and decode failures are returned.
func (s *Service) Run(ctx context.Context) (Outcome, error) {
	hold, buy := s.settings.HoldCurrency, s.settings.BuyCurrency

	if !s.settings.Active {
		telemetry.Infof("execution: auto-buy inactive, sending notice")
		return OutcomeDisabled, s.notifier.SendText(ctx, display.DisabledNotice)
	}

	reason, err := s.checkLimits(ctx)
	if err != nil {
		return "", err
	}
	if reason != "" {
		telemetry.Warnf("execution: skipping %s buy: %s", buy, reason)
		return OutcomeSkipped, s.notifier.SendText(ctx, display.SkipMessage(buy, reason))
	}

	ask, err := s.prices.BestAsk(ctx, hold, buy)
	if err != nil {
		return "", fmt.Errorf("fetch best ask %s/%s: %w", buy, hold, err)
	}

	req := coinone_http.PlaceOrderRequest{
		QuoteCurrency:  hold,
		TargetCurrency: buy,
		Amount:         s.settings.Amount,
		LimitPrice:     LimitPrice(ask),
		UserOrderID:    s.newOrderID(),
	}
	telemetry.Infof("execution: buying %s %s of %s  ask=%s limit=%s user_order_id=%s",
		req.Amount, hold, buy, ask, req.LimitPrice, req.UserOrderID)

	placedAt := s.now()
	ack, err := s.exchange.PlaceOrder(ctx, req)
	if err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}
	s.recordSubmission(req, ack, placedAt)

	if !ack.Succeeded() {
		return OutcomeRejected, s.notifier.SendText(ctx, display.FailureMessage(buy, ack.Raw))
	}

	if err := sleepCtx(ctx, s.settleDelay); err != nil {
		return "", err
	}

	order, err := s.exchange.GetOrderDetail(ctx, ack.OrderID, hold, buy)
	if err != nil {
		return "", fmt.Errorf("order detail %s: %w", ack.OrderID, err)
	}
	telemetry.Infof("execution: order %s status=%s executed_qty=%s avg_price=%s",
		order.OrderID, order.Status, order.ExecutedQty, order.AverageExecutedPrice)
	s.recordResult(req.UserOrderID, *order)

	balances, err := s.reporter.Report(ctx, hold, hold, buy)
	if err != nil {
		return "", fmt.Errorf("balance report: %w", err)
	}

	msg := display.SuccessMessage(display.OrderReport(*order, hold, buy, s.settings.Location), balances)
	return OutcomeSubmitted, s.notifier.SendText(ctx, msg)
}

func (s *Service) recordSubmission(req coinone_http.PlaceOrderRequest, ack *coinone_http.OrderAck, placedAt time.Time) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.RecordSubmission(tracking.Submission{
		PlacedAt:       placedAt,
		UserOrderID:    req.UserOrderID,
		OrderID:        ack.OrderID,
		QuoteCurrency:  req.QuoteCurrency,
		TargetCurrency: req.TargetCurrency,
		Amount:         req.Amount.String(),
		LimitPrice:     req.LimitPrice.String(),
		Result:         ack.Result,
		ErrorCode:      ack.ErrorCode,
		Raw:            ack.Raw,
	})
	if err != nil {
		telemetry.Metrics.StoreErrors.Inc()
		telemetry.Warnf("execution: record submission: %v", err)
	}
}

func (s *Service) recordResult(userOrderID string, order coinone_http.Order) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordResult(userOrderID, order); err != nil {
		telemetry.Metrics.StoreErrors.Inc()
		telemetry.Warnf("execution: record result: %v", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
