package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Series {
	return FromPoints("cpi", []Point{
		{Date: date(2020, 1, 1), Value: 2},
		{Date: date(2020, 2, 1), Value: 4},
		{Date: date(2020, 3, 1), Value: 4},
		{Date: date(2020, 4, 1), Value: 4},
		{Date: date(2020, 5, 1), Value: 5},
		{Date: date(2020, 6, 1), Value: 5},
		{Date: date(2020, 7, 1), Value: 7},
		{Date: date(2020, 8, 1), Value: 9},
	})
}

func TestStats(t *testing.T) {
	st := sample().Stats()
	assert.Equal(t, 8, st.Count)
	assert.Equal(t, 2.0, st.Min)
	assert.Equal(t, 9.0, st.Max)
	assert.InDelta(t, 5.0, st.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(4.571428571428571), st.Std, 1e-10)
}

func TestStatsEmpty(t *testing.T) {
	st := Empty("x").Stats()
	assert.Equal(t, 0, st.Count)
	assert.True(t, math.IsNaN(st.Mean))
}

func TestLastFirstAndCopy(t *testing.T) {
	s := sample()
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 9.0, last.Value)
	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, date(2020, 1, 1), first.Date)

	cp := s.Copy()
	cp.Points[0].Value = 100
	assert.Equal(t, 2.0, s.Points[0].Value, "copy must not alias")

	_, ok = Empty("e").Last()
	assert.False(t, ok)
}

func TestBetween(t *testing.T) {
	s := sample().Between(date(2020, 3, 1), date(2020, 5, 1))
	assert.Equal(t, []float64{4, 4, 5}, s.Values())

	open := sample().Between(date(2020, 7, 1), time.Time{})
	assert.Equal(t, []float64{7, 9}, open.Values())
}
