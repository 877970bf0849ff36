// Package series provides time-indexed decimal series, the shared representation
// for prices, positions, costs, portfolio values and returns.
package series

import (
	"time"

	"github.com/shopspring/decimal"
)

// Point is a single observation in a series.
type Point struct {
	Time  time.Time
	Value decimal.Decimal
}

// Series is an ordered sequence of points with strictly increasing timestamps.
type Series []Point

// New builds a series from parallel time and value slices. Inputs longer than
// the shorter slice are truncated.
func New(times []time.Time, values []decimal.Decimal) Series {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	s := make(Series, n)
	for i := 0; i < n; i++ {
		s[i] = Point{Time: times[i], Value: values[i]}
	}
	return s
}

// FromFloats builds a series from float64 values.
func FromFloats(times []time.Time, values []float64) Series {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	s := make(Series, n)
	for i := 0; i < n; i++ {
		s[i] = Point{Time: times[i], Value: decimal.NewFromFloat(values[i])}
	}
	return s
}

// Constant returns a series with the same value at every timestamp of index.
func Constant(index []time.Time, value decimal.Decimal) Series {
	s := make(Series, len(index))
	for i, t := range index {
		s[i] = Point{Time: t, Value: value}
	}
	return s
}

// Zeros returns an all-zero series over index.
func Zeros(index []time.Time) Series {
	return Constant(index, decimal.Zero)
}

// Len returns the number of points.
func (s Series) Len() int { return len(s) }

// Empty reports whether the series has no points.
func (s Series) Empty() bool { return len(s) == 0 }

// First returns the first point. It panics on an empty series.
func (s Series) First() Point { return s[0] }

// Last returns the last point. It panics on an empty series.
func (s Series) Last() Point { return s[len(s)-1] }

// Times returns the timestamp index.
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Time
	}
	return out
}

// Values returns the values in index order.
func (s Series) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Floats returns the values converted to float64.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value.InexactFloat64()
	}
	return out
}

// Reindex aligns the series onto a new timestamp index. Each target timestamp
// takes the most recent value at or before it (forward-fill); timestamps before
// the first observation are zero-filled.
func (s Series) Reindex(index []time.Time) Series {
	out := make(Series, len(index))
	j := 0
	for i, t := range index {
		for j < len(s) && !s[j].Time.After(t) {
			j++
		}
		if j == 0 {
			out[i] = Point{Time: t, Value: decimal.Zero}
			continue
		}
		out[i] = Point{Time: t, Value: s[j-1].Value}
	}
	return out
}

// PctChange returns the period-over-period percentage change. The result is one
// point shorter than the input; each point carries the timestamp of the later
// period. An empty or single-point series yields an empty result.
func (s Series) PctChange() Series {
	if len(s) < 2 {
		return Series{}
	}
	out := make(Series, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Value
		change := decimal.Zero
		if !prev.IsZero() {
			change = s[i].Value.Div(prev).Sub(decimal.NewFromInt(1))
		}
		out = append(out, Point{Time: s[i].Time, Value: change})
	}
	return out
}

// CumSum returns the running sum of the series.
func (s Series) CumSum() Series {
	out := make(Series, len(s))
	total := decimal.Zero
	for i, p := range s {
		total = total.Add(p.Value)
		out[i] = Point{Time: p.Time, Value: total}
	}
	return out
}

// Slice returns the points with start <= Time <= end.
func (s Series) Slice(start, end time.Time) Series {
	out := make(Series, 0)
	for _, p := range s {
		if p.Time.Before(start) || p.Time.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// At looks up the value at an exact timestamp.
func (s Series) At(t time.Time) (decimal.Decimal, bool) {
	for _, p := range s {
		if p.Time.Equal(t) {
			return p.Value, true
		}
	}
	return decimal.Zero, false
}
