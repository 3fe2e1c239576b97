package display

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// commaFloat renders d with thousands separators and no trailing zeros,
// e.g. 1234567.5 -> "1,234,567.5", 0.00012 -> "0.00012".
func commaFloat(d decimal.Decimal) string {
	return humanize.Commaf(d.InexactFloat64())
}

// commaInt truncates d toward zero and renders it with thousands separators.
func commaInt(d decimal.Decimal) string {
	return humanize.Comma(d.IntPart())
}
