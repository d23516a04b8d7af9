// Package portfolio holds the allocation riskometer and the inflation
// projection calculator.
package portfolio

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrAllocationSum is returned when an allocation does not total 100%.
var ErrAllocationSum = errors.New("allocation must sum to 100%")

var (
	equityWeight = decimal.NewFromFloat(0.7)
	debtWeight   = decimal.NewFromFloat(0.1)
	goldWeight   = decimal.NewFromFloat(0.2)
	hundred      = decimal.NewFromInt(100)
)

// Band classifies a risk score.
type Band string

const (
	BandLow      Band = "LOW"
	BandModerate Band = "MODERATE"
	BandHigh     Band = "HIGH"
)

// Allocation is a portfolio split in whole or fractional percent.
type Allocation struct {
	Equity float64
	Debt   float64
	Gold   float64 // gold and commodities
}

// Risk is a scored allocation.
type Risk struct {
	Score decimal.Decimal
	Band  Band
}

func (r Risk) String() string {
	return fmt.Sprintf("%s → %s RISK", r.Score.StringFixed(1), r.Band)
}

// RiskScore weights equity 0.7, gold 0.2 and debt 0.1 into a 0-100 score.
func RiskScore(a Allocation) (Risk, error) {
	eq := decimal.NewFromFloat(a.Equity)
	debt := decimal.NewFromFloat(a.Debt)
	gold := decimal.NewFromFloat(a.Gold)
	shares := []struct {
		name string
		v    decimal.Decimal
	}{{"equity", eq}, {"debt", debt}, {"gold", gold}}
	for _, sh := range shares {
		if sh.v.IsNegative() || sh.v.GreaterThan(hundred) {
			return Risk{}, fmt.Errorf("%s share %s%% out of range 0-100", sh.name, sh.v.String())
		}
	}
	if total := eq.Add(debt).Add(gold); !total.Equal(hundred) {
		return Risk{}, fmt.Errorf("%w: current sum %s%%", ErrAllocationSum, total.String())
	}
	score := eq.Mul(equityWeight).Add(debt.Mul(debtWeight)).Add(gold.Mul(goldWeight))
	return Risk{Score: score, Band: bandFor(score)}, nil
}

func bandFor(score decimal.Decimal) Band {
	switch {
	case score.LessThan(decimal.NewFromInt(30)):
		return BandLow
	case score.LessThan(decimal.NewFromInt(60)):
		return BandModerate
	default:
		return BandHigh
	}
}
