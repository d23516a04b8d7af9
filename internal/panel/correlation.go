package panel

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Matrix is a symmetric Pearson correlation matrix. Undefined entries
// (fewer than two shared rows, or a constant column) are NaN.
type Matrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is one off-diagonal entry.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlate computes pairwise-complete Pearson correlations between the
// panel's columns: each entry only uses rows where both columns are present.
func Correlate(p *Panel) *Matrix {
	n := len(p.Columns)
	m := &Matrix{Columns: append([]string(nil), p.Columns...), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		xs, _ := complete(p, a, a)
		if len(xs) >= 2 && !constant(xs) {
			m.Values[a][a] = 1
		} else {
			m.Values[a][a] = math.NaN()
		}
		for b := a + 1; b < n; b++ {
			r := pairwise(p, a, b)
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

// At returns the entry for two named columns, NaN when either is unknown.
func (m *Matrix) At(a, b string) float64 {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return math.NaN()
	}
	return m.Values[ia][ib]
}

// Pairs lists defined off-diagonal entries ordered by |r| descending.
func (m *Matrix) Pairs() []PairCorr {
	var out []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			out = append(out, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].R), math.Abs(out[j].R)
		if ai == aj {
			return out[i].A+out[i].B < out[j].A+out[j].B
		}
		return ai > aj
	})
	return out
}

func pairwise(p *Panel, a, b int) float64 {
	xs, ys := complete(p, a, b)
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func complete(p *Panel, a, b int) (xs, ys []float64) {
	for _, row := range p.Values {
		x, y := row[a], row[b]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
