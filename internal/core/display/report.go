package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/charleschow/coinone-dca/internal/adapters/outbound/coinone_http"
)

const (
	successHeader = "**===== 주문이 접수되었습니다 =====**\n\n"
	balanceHeader = "=== 자산 별 보유 현황 ===\n"

	DisabledNotice = "**===== 오늘은 자동 매수가 비활성화되어 있습니다 =====**"
)

// BalanceRow is one currency in the holdings report. ValuationPrice is the
// per-unit price the holding is valued at, chosen by the valuation mode.
type BalanceRow struct {
	Currency       string
	Available      decimal.Decimal
	AveragePrice   decimal.Decimal
	ValuationPrice decimal.Decimal
}

// Valuation is Available x ValuationPrice, truncated to whole units of the
// hold currency.
func (r BalanceRow) Valuation() decimal.Decimal {
	return r.Available.Mul(r.ValuationPrice).Truncate(0)
}

// BalanceReport renders the holdings blocks under the fixed header. Prices
// and valuations are expressed in holdCurrency.
func BalanceReport(rows []BalanceRow, holdCurrency string) string {
	var b strings.Builder
	b.WriteString(balanceHeader)
	for _, r := range rows {
		fmt.Fprintf(&b, "\n**[%s]**\n", r.Currency)
		fmt.Fprintf(&b, "현재 보유량: %s %s\n", commaFloat(r.Available), r.Currency)
		fmt.Fprintf(&b, "매수 평균가: %s %s\n", commaFloat(r.AveragePrice), holdCurrency)
		fmt.Fprintf(&b, "총 보유 가치: %s %s\n", commaInt(r.Valuation()), holdCurrency)
	}
	return b.String()
}

// OrderReport renders one order's execution result. ordered_at is epoch
// milliseconds and is shown in loc.
func OrderReport(o coinone_http.Order, holdCurrency, buyCurrency string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	orderedAt := time.UnixMilli(o.OrderedAt).In(loc).Format("2006-01-02 15:04:05")

	var b strings.Builder
	fmt.Fprintf(&b, "**[주문 ID]**\n %s\n\n", o.OrderID)
	fmt.Fprintf(&b, "**[주문 시각]**\n%s\n\n", orderedAt)
	fmt.Fprintf(&b, "**[주문 가격]**\n%s %s\n\n", commaInt(o.AverageExecutedPrice), holdCurrency)
	fmt.Fprintf(&b, "**[체결 수량]**\n%s %s\n\n", o.ExecutedQty.String(), buyCurrency)
	fmt.Fprintf(&b, "**[체결 금액]**\n%s %s\n\n", commaInt(o.TradedAmount), holdCurrency)
	fmt.Fprintf(&b, "**[주문 상태]**\n%s\n\n", o.Status)
	fmt.Fprintf(&b, "**[수수료]**\n%s %s\n\n", commaFloat(o.Fee), holdCurrency)
	return b.String()
}

// SuccessMessage is the webhook body for an accepted order.
func SuccessMessage(orderReport, balanceReport string) string {
	return successHeader + orderReport + "\n" + balanceReport
}

// FailureMessage embeds the exchange's raw rejection body.
func FailureMessage(buyCurrency string, raw []byte) string {
	return fmt.Sprintf("Failed to buy %s: %s", buyCurrency, raw)
}

// SkipMessage explains why a run placed no order.
func SkipMessage(buyCurrency, reason string) string {
	return fmt.Sprintf("**===== %s 자동 매수를 건너뜁니다 =====**\n%s", buyCurrency, reason)
}
