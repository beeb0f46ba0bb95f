package currency

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ConvertPrice converts an amount in the base currency to the target
// currency. The rate table direction is "units of base currency per 1 unit
// of target", so conversion divides. Conversion never fails: when the target
// is the base currency, or no usable rate exists, the amount comes back
// unchanged (with a warning for the missing-rate case).
func ConvertPrice(amount decimal.Decimal, target string, rates map[string]decimal.Decimal, logger *log.Logger) decimal.Decimal {
	if target == BaseCurrency {
		return amount
	}
	rate, ok := rates[target]
	if !ok || !rate.IsPositive() {
		if logger != nil {
			logger.Printf("no usable exchange rate for %s to %s, using original price", BaseCurrency, target)
		}
		return amount
	}
	return amount.Div(rate).Round(2)
}

// FormatPrice renders an amount with the currency's symbol and decimal
// places, grouping thousands. Unknown codes fall back to a plain grouped
// number.
func FormatPrice(amount decimal.Decimal, code string) string {
	info, ok := Lookup(code)
	if !ok {
		return groupThousands(amount.StringFixed(2))
	}
	return info.Symbol + groupThousands(amount.StringFixed(int32(info.DecimalPlaces)))
}

// AreRatesRecent reports whether rates fetched at lastUpdated are still
// usable. A zero lastUpdated (never fetched) is always stale; an age exactly
// equal to maxAge still counts as recent.
func AreRatesRecent(lastUpdated time.Time, maxAge time.Duration) bool {
	if lastUpdated.IsZero() {
		return false
	}
	return time.Since(lastUpdated) <= maxAge
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
