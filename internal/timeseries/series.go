// Package timeseries holds the canonical (date, value) series type and the
// normalizer that turns loosely typed rows from APIs and uploaded files into it.
package timeseries

import (
	"math"
	"time"
)

// Point is a single observation on a calendar day (UTC midnight).
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered, date-unique sequence of observations.
// Values returned by Normalize are always sorted ascending by Date with no
// duplicate dates and no missing values.
type Series struct {
	Name   string
	Points []Point
	// Dropped counts input rows discarded because their date or value did
	// not parse. It is informational only.
	Dropped int
}

// Empty returns a named series with no observations.
func Empty(name string) *Series {
	return &Series{Name: name, Points: []Point{}}
}

// FromPoints builds a series from already canonical points. The caller is
// responsible for ordering; use Normalize for untrusted input.
func FromPoints(name string, points []Point) *Series {
	cp := make([]Point, len(points))
	copy(cp, points)
	return &Series{Name: name, Points: cp}
}

// Len returns the number of observations.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// IsEmpty reports whether the series holds no observations.
func (s *Series) IsEmpty() bool { return s.Len() == 0 }

// Last returns the most recent observation.
func (s *Series) Last() (Point, bool) {
	if s.Len() == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// First returns the earliest observation.
func (s *Series) First() (Point, bool) {
	if s.Len() == 0 {
		return Point{}, false
	}
	return s.Points[0], true
}

// Dates returns a copy of the observation dates.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, s.Len())
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// Values returns a copy of the observation values.
func (s *Series) Values() []float64 {
	out := make([]float64, s.Len())
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	if s == nil {
		return nil
	}
	cp := FromPoints(s.Name, s.Points)
	cp.Dropped = s.Dropped
	return cp
}

// Rename returns a copy carrying a different name.
func (s *Series) Rename(name string) *Series {
	cp := s.Copy()
	cp.Name = name
	return cp
}

// Between returns the observations with from <= date <= to. A zero bound is
// treated as open.
func (s *Series) Between(from, to time.Time) *Series {
	out := Empty(s.Name)
	for _, p := range s.Points {
		if !from.IsZero() && p.Date.Before(from) {
			continue
		}
		if !to.IsZero() && p.Date.After(to) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out
}

// Stats summarizes the values of a series.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
	Std   float64 // sample standard deviation (n-1)
}

// Stats computes summary statistics using Welford's update.
func (s *Series) Stats() Stats {
	st := Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN(), Std: math.NaN()}
	var mean, m2 float64
	for i, p := range s.Points {
		x := p.Value
		if i == 0 {
			st.Min, st.Max = x, x
		}
		if x < st.Min {
			st.Min = x
		}
		if x > st.Max {
			st.Max = x
		}
		n := float64(i + 1)
		delta := x - mean
		mean += delta / n
		m2 += delta * (x - mean)
	}
	st.Count = s.Len()
	if st.Count > 0 {
		st.Mean = mean
	}
	if st.Count > 1 {
		st.Std = math.Sqrt(m2 / float64(st.Count-1))
	}
	return st
}

// Day truncates t to midnight UTC of its own calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
