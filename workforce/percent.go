package workforce

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// NUMERIC PARSING - Explicit and total
// =============================================================================

const (
	zeroPercent = "0%"
	currency    = "EUR"
)

// Bounds on parsed numbers. Rounding and String() expand the exponent into
// digits, so "1e20000000" would cost seconds and megabytes per cell.
const (
	maxExponent = 15
	minExponent = -64
	maxDigits   = 64
)

var hundred = decimal.NewFromInt(100)

// ParseDecimal parses s as a decimal number. Surrounding whitespace is
// ignored; anything else that is not a number, or a number outside the
// supported range, yields ok == false.
func ParseDecimal(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < minExponent || d.NumDigits() > maxDigits {
		return decimal.Zero, false
	}
	return d, true
}

// Percent formats a fraction ("0.67") as a rounded percentage ("67%").
// Absent or unparsable input yields "0%". Halves round away from zero.
func Percent(fraction *string) string {
	if fraction == nil {
		return zeroPercent
	}
	d, ok := ParseDecimal(*fraction)
	if !ok {
		return zeroPercent
	}
	return d.Mul(hundred).Round(0).String() + "%"
}

// Earnings formats an amount as "<amount> EUR", negated for externals.
// Zero never carries a sign.
func Earnings(amount decimal.Decimal, kind Kind) string {
	if kind == KindExternal {
		amount = amount.Neg()
	}
	return amount.String() + " " + currency
}
