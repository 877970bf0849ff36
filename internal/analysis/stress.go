package analysis

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"quanthelper/internal/series"
)

var (
	// ErrEmptySeries indicates an empty input series where one is required.
	ErrEmptySeries = errors.New("series is empty")
	// ErrEmptyWindow indicates a historical window with no data.
	ErrEmptyWindow = errors.New("no data in requested historical window")
)

// ApplyReturnShock applies an instantaneous return shock to the last value of
// an equity curve and returns the shocked copy.
func ApplyReturnShock(equityCurve series.Series, shockPct float64) (series.Series, error) {
	if equityCurve.Empty() {
		return nil, ErrEmptySeries
	}
	shocked := make(series.Series, equityCurve.Len())
	copy(shocked, equityCurve)
	last := equityCurve.Len() - 1
	factor := decimal.NewFromFloat(1 + shockPct)
	shocked[last] = series.Point{
		Time:  equityCurve[last].Time,
		Value: equityCurve[last].Value.Mul(factor),
	}
	return shocked, nil
}

// HistoricalScenario extracts the price window between start and end and
// normalizes it to its first value.
func HistoricalScenario(prices series.Series, start, end time.Time) (series.Series, error) {
	window := prices.Slice(start, end)
	if window.Empty() {
		return nil, ErrEmptyWindow
	}
	first := window.First().Value
	out := make(series.Series, window.Len())
	for i, p := range window {
		out[i] = series.Point{Time: p.Time, Value: p.Value.Div(first)}
	}
	return out, nil
}

// ScenarioSummary compares a base equity curve against a stressed one.
type ScenarioSummary struct {
	BaseReturn     float64
	StressedReturn float64
	Difference     float64
}

// CompareScenarios inner-joins the two curves on timestamps and reports total
// returns over the overlap. No overlap is an error.
func CompareScenarios(base, stressed series.Series) (*ScenarioSummary, error) {
	lookup := make(map[int64]decimal.Decimal, stressed.Len())
	for _, p := range stressed {
		lookup[p.Time.UnixNano()] = p.Value
	}

	var baseAligned, stressedAligned series.Series
	for _, p := range base {
		v, ok := lookup[p.Time.UnixNano()]
		if !ok {
			continue
		}
		baseAligned = append(baseAligned, p)
		stressedAligned = append(stressedAligned, series.Point{Time: p.Time, Value: v})
	}
	if baseAligned.Empty() {
		return nil, ErrNoOverlap
	}

	baseReturn := totalReturn(baseAligned)
	stressedReturn := totalReturn(stressedAligned)
	return &ScenarioSummary{
		BaseReturn:     baseReturn,
		StressedReturn: stressedReturn,
		Difference:     stressedReturn - baseReturn,
	}, nil
}

func totalReturn(s series.Series) float64 {
	first := s.First().Value
	if first.IsZero() {
		return 0
	}
	return s.Last().Value.Div(first).Sub(decimal.NewFromInt(1)).InexactFloat64()
}
