// Package money formats converted amounts for display.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxPrecision is the largest number of fraction digits Format will print.
const MaxPrecision = 8

// Format renders amount with the currency symbol, comma grouped thousands
// and exactly precision fraction digits, rounding half away from zero.
// Out of range precisions are clamped.
func Format(amount float64, code Code, precision int) string {
	precision = clampPrecision(precision)
	d := decimal.NewFromFloat(amount).Round(int32(precision))

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(int32(precision))
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(code.Symbol())
	b.WriteString(group(intPart))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatString is Format for a plain string code.
func FormatString(amount float64, code string, precision int) string {
	return Format(amount, Code(strings.ToUpper(code)), precision)
}

// ValidatePrecision checks p against the supported range.
func ValidatePrecision(p int) error {
	if p < 0 || p > MaxPrecision {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, p)
	}
	return nil
}

func clampPrecision(p int) int {
	switch {
	case p < 0:
		return 0
	case p > MaxPrecision:
		return MaxPrecision
	}
	return p
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
