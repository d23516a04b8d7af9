package panel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairs_RankedByAbsoluteR(t *testing.T) {
	m := &Matrix{
		Columns: []string{"a", "b", "c"},
		Values: [][]float64{
			{1, 0.2, -0.9},
			{0.2, 1, math.NaN()},
			{-0.9, math.NaN(), 1},
		},
	}
	pairs := m.Pairs()
	assert.Equal(t, []PairCorr{{A: "a", B: "c", R: -0.9}, {A: "a", B: "b", R: 0.2}}, pairs)
}
