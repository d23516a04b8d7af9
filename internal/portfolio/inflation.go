package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProjectPrice compounds initial at ratePct percent per year for years.
func ProjectPrice(initial, ratePct float64, years int) (decimal.Decimal, error) {
	if years < 1 {
		return decimal.Zero, fmt.Errorf("years must be at least 1, got %d", years)
	}
	growth := decimal.NewFromInt(1).Add(decimal.NewFromFloat(ratePct).Div(hundred))
	if !growth.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate %.2f%% leaves nothing to compound", ratePct)
	}
	return decimal.NewFromFloat(initial).Mul(growth.Pow(decimal.NewFromInt(int64(years)))), nil
}
