// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every money value.
const CurrencySymbol = "€"

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return groupDigits(strconv.FormatInt(n, 10))
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatMoney renders an amount with two decimals, rounded half away from zero.
// e.g., 1234567.125 -> "€1,234,567.13", -25 -> "-€25.00"
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + CurrencySymbol + groupDigits(whole) + "." + frac
}

// FormatMoneyShort renders an amount with K/M/B suffixes for cards and charts.
// e.g., 1234 -> "€1.2K", -2500000 -> "-€2.5M", 12.5 -> "€12.50"
func FormatMoneyShort(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%s%s%.1fB", sign, CurrencySymbol, abs/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%s%.1fM", sign, CurrencySymbol, abs/1_000_000)
	case abs >= 10_000:
		return fmt.Sprintf("%s%s%.1fK", sign, CurrencySymbol, abs/1_000)
	}
	return FormatMoney(v)
}

// FormatSignedMoney is FormatMoney with an explicit "+" on non-negative values.
func FormatSignedMoney(v float64) string {
	if v >= 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatDelta formats the difference current - previous as a signed amount.
func FormatDelta(current, previous float64) string {
	return FormatSignedMoney(current - previous)
}

// FormatPercent formats a fraction as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatRatio formats a scenario ratio with an explicit sign, e.g. 0.05 -> "+5.0%".
func FormatRatio(f float64) string {
	if f >= 0 {
		return "+" + FormatPercent(f)
	}
	return FormatPercent(f)
}

// FormatIndex formats a price/volume/mix multiplier.
func FormatIndex(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// FormatMonth renders a month as "Jan 2024".
func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}
