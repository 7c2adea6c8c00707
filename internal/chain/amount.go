package chain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of fractional digits kept for decimal amounts.
const AmountPrecision = 18

// ToDecimal converts a raw integer balance in the smallest currency unit to a
// decimal amount in whole units, truncated to AmountPrecision fractional digits.
// A nil amount converts to zero.
func ToDecimal(amount *big.Int, decimalPlaces int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	if decimalPlaces < 0 {
		decimalPlaces = 0
	}

	return decimal.NewFromBigInt(amount, -int32(decimalPlaces)).Truncate(AmountPrecision) //nolint:gosec // G115: decimals come from a small catalog value
}

// FormatAmount renders an amount with exactly AmountPrecision fractional digits,
// e.g. "1.000000000000000000".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountPrecision)
}

// AmountKey returns a canonical representation used to compare amounts for
// equality regardless of the precision they were produced with.
func AmountKey(amount decimal.Decimal) string {
	return amount.String()
}
