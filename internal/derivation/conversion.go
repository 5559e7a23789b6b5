package derivation

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ConvertAmount multiplies amount by rate and prints it with 2 decimals.
// It returns "" when amount is not a number or there is no rate yet.
func ConvertAmount(amount string, rate float64) string {
	if !usableRate(rate) {
		return ""
	}

	a, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return ""
	}

	return a.Mul(decimal.NewFromFloat(rate)).StringFixed(2)
}

// InverseRate is 1/rate with 4 decimals, "" when rate is unusable.
func InverseRate(rate float64) string {
	if !usableRate(rate) {
		return ""
	}

	return decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(rate), 4).StringFixed(4)
}

func usableRate(rate float64) bool {
	return rate != 0 && !math.IsNaN(rate) && !math.IsInf(rate, 0)
}
