// Package forecast extrapolates a series along its first-order least-squares
// trend over ordinal dates.
package forecast

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// MinHistory is the smallest series that gets a projection. Shorter series
// are returned unchanged.
const MinHistory = 3

// MaxHorizon is the longest projection Forecast will generate. Larger
// horizons are treated like a non-positive one.
const MaxHorizon = 1200

// ErrInsufficientData is returned by Fit when fewer than two observations
// are available.
var ErrInsufficientData = errors.New("forecast: need at least two observations")

// Trend is the fitted line value = Intercept + Slope*ordinal.
type Trend struct {
	Slope     float64
	Intercept float64
}

// At evaluates the trend on t's calendar day.
func (tr Trend) At(t time.Time) float64 {
	return tr.Intercept + tr.Slope*float64(Ordinal(t))
}

// Point is an observation tagged with whether it was projected.
type Point struct {
	Date       time.Time
	Value      float64
	IsForecast bool
}

// Forecasted is a historical series followed by its projected continuation.
type Forecasted struct {
	Name   string
	Points []Point
	// Trend is nil when the projection was skipped.
	Trend   *Trend
	Horizon int
	Step    Step
	// Dropped carries the source series' count of unparseable rows.
	Dropped int
}

// Fit estimates the ordinary least-squares line of value against ordinal
// date.
func Fit(s *timeseries.Series) (Trend, error) {
	if s.Len() < 2 {
		return Trend{}, ErrInsufficientData
	}
	xs := make([]float64, s.Len())
	ys := make([]float64, s.Len())
	for i, p := range s.Points {
		xs[i] = float64(Ordinal(p.Date))
		ys[i] = p.Value
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Trend{Slope: beta, Intercept: alpha}, nil
}

// Forecast appends horizon points spaced by step after the last
// observation, each lying on the fitted trend. Series shorter than
// MinHistory, or a horizon outside 1..MaxHorizon, come back unchanged with
// every point flagged historical.
func Forecast(s *timeseries.Series, horizon int, step Step) *Forecasted {
	out := &Forecasted{Step: step}
	if s == nil {
		return out
	}
	out.Name = s.Name
	out.Dropped = s.Dropped
	valid := horizon > 0 && horizon <= MaxHorizon
	extra := 0
	if valid {
		extra = horizon
	}
	out.Points = make([]Point, 0, s.Len()+extra)
	for _, p := range s.Points {
		out.Points = append(out.Points, Point{Date: p.Date, Value: p.Value})
	}
	if s.Len() < MinHistory || !valid {
		return out
	}
	tr, err := Fit(s)
	if err != nil {
		return out
	}
	out.Trend = &tr
	out.Horizon = horizon

	last, _ := s.Last()
	for i := 1; i <= horizon; i++ {
		d := step.Advance(last.Date, i)
		out.Points = append(out.Points, Point{Date: d, Value: tr.At(d), IsForecast: true})
	}
	return out
}

// History returns the non-projected prefix as a series.
func (f *Forecasted) History() *timeseries.Series {
	s := timeseries.Empty(f.Name)
	s.Dropped = f.Dropped
	for _, p := range f.Points {
		if !p.IsForecast {
			s.Points = append(s.Points, timeseries.Point{Date: p.Date, Value: p.Value})
		}
	}
	return s
}

// Projection returns only the projected points as a series.
func (f *Forecasted) Projection() *timeseries.Series {
	s := timeseries.Empty(f.Name)
	for _, p := range f.Points {
		if p.IsForecast {
			s.Points = append(s.Points, timeseries.Point{Date: p.Date, Value: p.Value})
		}
	}
	return s
}

// Projected reports whether any point was generated.
func (f *Forecasted) Projected() bool { return f.Trend != nil }
