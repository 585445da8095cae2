package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// ATR represents a unit average true range entry for a market.
type ATR struct {
	Value float64
	Date  time.Time
}

// ATRGenerator represents the Wilder average true range indicator.
//
// The generator is owned by a single session evaluation unit and must not be
// shared across markets or sessions.
type ATRGenerator struct {
	Market    string
	Timeframe shared.Timeframe
	Period    int

	count     int
	prevClose float64
	sum       float64
	value     float64
}

// NewATRGenerator initializes an ATR indicator for the provided market and timeframe.
func NewATRGenerator(market string, timeframe shared.Timeframe, period int) (*ATRGenerator, error) {
	if period <= 0 {
		return nil, fmt.Errorf("atr period must be positive, got %d", period)
	}

	return &ATRGenerator{
		Market:    market,
		Timeframe: timeframe,
		Period:    period,
	}, nil
}

// trueRange returns the true range of the provided candlestick relative to the
// previous close.
func (a *ATRGenerator) trueRange(candle *shared.Candlestick) float64 {
	if a.count == 0 {
		// No previous close available for the first candle.
		return candle.High - candle.Low
	}

	return math.Max(candle.High-candle.Low,
		math.Max(math.Abs(candle.High-a.prevClose), math.Abs(candle.Low-a.prevClose)))
}

// Update cummulatively updates the ATR indicator with the provided candlestick data.
func (a *ATRGenerator) Update(candle *shared.Candlestick) (*ATR, error) {
	if candle.Timeframe != a.Timeframe {
		return nil, fmt.Errorf("expected candles with timeframe %s, got %s",
			a.Timeframe.String(), candle.Timeframe.String())
	}
	if candle.Market != a.Market {
		return nil, fmt.Errorf("expected candles for market %s, got %s",
			a.Market, candle.Market)
	}

	tr := a.trueRange(candle)
	a.count++

	switch {
	case a.count < a.Period:
		a.sum += tr
	case a.count == a.Period:
		// Seed the average with a simple mean of the first period true ranges.
		a.sum += tr
		a.value = a.sum / float64(a.Period)
	default:
		// Wilder smoothing thereafter.
		a.value += (tr - a.value) / float64(a.Period)
	}

	a.prevClose = candle.Close

	atr := &ATR{Date: candle.Date}
	if value, ok := a.Value(); ok {
		atr.Value = value
	}

	return atr, nil
}

// Value returns the current average true range. The boolean is false while
// fewer than period candles have been accumulated, callers must suppress
// entries until it is true.
func (a *ATRGenerator) Value() (float64, bool) {
	if a.count < a.Period {
		return 0, false
	}

	return a.value, true
}
