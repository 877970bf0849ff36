package backtest

import "errors"

var (
	// ErrEmptyData indicates the supplied price history has no rows.
	ErrEmptyData = errors.New("no price data available")

	// ErrNoResult indicates no backtest has been run yet.
	ErrNoResult = errors.New("no backtest has been run yet")

	// ErrInvalidCapital indicates a non-positive initial capital.
	ErrInvalidCapital = errors.New("initial capital must be positive")
)
