// Package panel aligns independently sampled series onto one date index and
// measures how they move together.
package panel

import (
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// Panel is a date-indexed table with one column per input series.
// Missing cells hold NaN. Dates are strictly increasing.
type Panel struct {
	Dates   []time.Time
	Columns []string
	Values  [][]float64 // row-major, Values[row][col]
}

// Len returns the number of rows.
func (p *Panel) Len() int { return len(p.Dates) }

// Index returns the position of the named column, or -1.
func (p *Panel) Index(name string) int {
	for i, c := range p.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column extracts the non-missing cells of a column as a series.
func (p *Panel) Column(name string) *timeseries.Series {
	out := timeseries.Empty(name)
	j := p.Index(name)
	if j < 0 {
		return out
	}
	for i, d := range p.Dates {
		if v := p.Values[i][j]; !math.IsNaN(v) {
			out.Points = append(out.Points, timeseries.Point{Date: d, Value: v})
		}
	}
	return out
}

// Tail returns a panel holding the last n rows.
func (p *Panel) Tail(n int) *Panel {
	if n <= 0 || n >= p.Len() {
		return p
	}
	start := p.Len() - n
	return &Panel{Dates: p.Dates[start:], Columns: p.Columns, Values: p.Values[start:]}
}

// Merge outer-joins the series on date. Each column is filled by linear
// interpolation on row position between its own nearest known neighbours;
// cells before a column's first or after its last observation stay NaN.
// Columns are ordered by name; rows with no value in any column are dropped.
// Nil series are ignored.
func Merge(series map[string]*timeseries.Series) *Panel {
	names := make([]string, 0, len(series))
	for name, s := range series {
		if s != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	seen := map[int64]struct{}{}
	var dates []time.Time
	for _, name := range names {
		for _, pt := range series[name].Points {
			k := pt.Date.Unix()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			dates = append(dates, pt.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	row := make(map[int64]int, len(dates))
	for i, d := range dates {
		row[d.Unix()] = i
	}

	values := make([][]float64, len(dates))
	for i := range values {
		values[i] = make([]float64, len(names))
		for j := range values[i] {
			values[i][j] = math.NaN()
		}
	}
	for j, name := range names {
		for _, pt := range series[name].Points {
			values[row[pt.Date.Unix()]][j] = pt.Value
		}
		interpolateColumn(values, j)
	}

	p := &Panel{Columns: names}
	for i, d := range dates {
		if allMissing(values[i]) {
			continue
		}
		p.Dates = append(p.Dates, d)
		p.Values = append(p.Values, values[i])
	}
	return p
}

func interpolateColumn(values [][]float64, j int) {
	prev := -1
	for i := range values {
		if math.IsNaN(values[i][j]) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			v0, v1 := values[prev][j], values[i][j]
			span := float64(i - prev)
			for k := prev + 1; k < i; k++ {
				values[k][j] = v0 + (v1-v0)*float64(k-prev)/span
			}
		}
		prev = i
	}
}

func allMissing(row []float64) bool {
	for _, v := range row {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

// MergeAndCorrelate aligns the series and computes their correlation matrix.
func MergeAndCorrelate(series map[string]*timeseries.Series) (*Panel, *Matrix) {
	p := Merge(series)
	return p, Correlate(p)
}
