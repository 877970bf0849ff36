package series

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, time.January, 1+n, 0, 0, 0, 0, time.UTC)
}

func daily(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = day(i)
	}
	return out
}

func TestNew(t *testing.T) {
	s := New(daily(3), []decimal.Decimal{
		decimal.NewFromInt(1),
		decimal.NewFromInt(2),
		decimal.NewFromInt(3),
	})

	require.Equal(t, 3, s.Len())
	assert.True(t, s.First().Value.Equal(decimal.NewFromInt(1)))
	assert.True(t, s.Last().Value.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, day(2), s.Last().Time)
}

func TestNew_TruncatesToShorterSlice(t *testing.T) {
	s := New(daily(5), []decimal.Decimal{decimal.NewFromInt(1)})
	assert.Equal(t, 1, s.Len())
}

func TestConstantAndZeros(t *testing.T) {
	c := Constant(daily(4), decimal.NewFromInt(7))
	require.Equal(t, 4, c.Len())
	for _, p := range c {
		assert.True(t, p.Value.Equal(decimal.NewFromInt(7)))
	}

	z := Zeros(daily(2))
	for _, p := range z {
		assert.True(t, p.Value.IsZero())
	}
}

func TestReindex_ForwardFill(t *testing.T) {
	// Sparse decisions on days 1 and 3.
	sparse := New(
		[]time.Time{day(1), day(3)},
		[]decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(-1)},
	)

	aligned := sparse.Reindex(daily(5))

	require.Equal(t, 5, aligned.Len())
	// Day 0 precedes the first decision: zero-filled.
	assert.True(t, aligned[0].Value.IsZero())
	// Days 1 and 2 hold the first decision.
	assert.True(t, aligned[1].Value.Equal(decimal.NewFromInt(1)))
	assert.True(t, aligned[2].Value.Equal(decimal.NewFromInt(1)))
	// Days 3 and 4 hold the second.
	assert.True(t, aligned[3].Value.Equal(decimal.NewFromInt(-1)))
	assert.True(t, aligned[4].Value.Equal(decimal.NewFromInt(-1)))
}

func TestReindex_EmptySource(t *testing.T) {
	aligned := Series{}.Reindex(daily(3))
	require.Equal(t, 3, aligned.Len())
	for _, p := range aligned {
		assert.True(t, p.Value.IsZero())
	}
}

func TestPctChange(t *testing.T) {
	s := FromFloats(daily(3), []float64{100, 110, 99})
	changes := s.PctChange()

	require.Equal(t, 2, changes.Len())
	assert.True(t, changes[0].Value.Equal(decimal.NewFromFloat(0.1)), "got %s", changes[0].Value)
	assert.True(t, changes[1].Value.Equal(decimal.NewFromFloat(-0.1)), "got %s", changes[1].Value)
	// Returns carry the timestamp of the later period.
	assert.Equal(t, day(1), changes[0].Time)
}

func TestPctChange_Degenerate(t *testing.T) {
	assert.Equal(t, 0, Series{}.PctChange().Len())
	assert.Equal(t, 0, FromFloats(daily(1), []float64{100}).PctChange().Len())
}

func TestPctChange_ZeroPrevious(t *testing.T) {
	s := FromFloats(daily(2), []float64{0, 5})
	changes := s.PctChange()
	require.Equal(t, 1, changes.Len())
	assert.True(t, changes[0].Value.IsZero())
}

func TestCumSum(t *testing.T) {
	s := FromFloats(daily(3), []float64{1, 2, 3})
	sums := s.CumSum()

	require.Equal(t, 3, sums.Len())
	assert.True(t, sums[0].Value.Equal(decimal.NewFromInt(1)))
	assert.True(t, sums[1].Value.Equal(decimal.NewFromInt(3)))
	assert.True(t, sums[2].Value.Equal(decimal.NewFromInt(6)))
}

func TestSlice(t *testing.T) {
	s := FromFloats(daily(5), []float64{1, 2, 3, 4, 5})

	window := s.Slice(day(1), day(3))
	require.Equal(t, 3, window.Len())
	assert.Equal(t, day(1), window.First().Time)
	assert.Equal(t, day(3), window.Last().Time)

	assert.True(t, s.Slice(day(10), day(20)).Empty())
}

func TestAt(t *testing.T) {
	s := FromFloats(daily(3), []float64{1, 2, 3})

	v, ok := s.At(day(1))
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(2)))

	_, ok = s.At(day(9))
	assert.False(t, ok)
}

func TestFloats(t *testing.T) {
	s := FromFloats(daily(2), []float64{1.5, 2.5})
	assert.Equal(t, []float64{1.5, 2.5}, s.Floats())
}
