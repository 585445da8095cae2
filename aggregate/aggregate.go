package aggregate

import (
	"fmt"
	"math"
	"time"

	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// Aggregate resamples the provided strictly time ordered base resolution
// candles for one market into candles of the provided timeframe. Intervals are
// half open, [t, t+width), aligned to the provided anchor instant. The
// trailing interval is flagged partial when the source data ends before
// covering it fully.
func Aggregate(candles []shared.Candlestick, timeframe shared.Timeframe, anchor time.Time) ([]shared.Candlestick, error) {
	width := timeframe.Duration()
	if width <= 0 {
		return nil, fmt.Errorf("aggregating candles: invalid target timeframe %s", timeframe.String())
	}

	if len(candles) == 0 {
		return []shared.Candlestick{}, nil
	}

	market := candles[0].Market
	aggregated := make([]shared.Candlestick, 0, len(candles))
	currentBucket := int64(math.MinInt64)

	// coverage tracks how much of the current interval the source data spans.
	var coverage time.Duration

	for idx := range candles {
		candle := &candles[idx]

		if candle.Market != market {
			return nil, fmt.Errorf("%w: mixed markets %s and %s in source candles",
				shared.ErrMalformedInput, market, candle.Market)
		}
		if idx > 0 && !candle.Date.After(candles[idx-1].Date) {
			return nil, fmt.Errorf("%w: candle at %s is not after preceding candle at %s",
				shared.ErrMalformedInput, candle.Date.Format(shared.DateLayout),
				candles[idx-1].Date.Format(shared.DateLayout))
		}

		bucket := bucketIndex(candle.Date, anchor, width)
		if bucket != currentBucket {
			// Start a new aggregated interval.
			start := anchor.Add(time.Duration(bucket) * width)
			aggregated = append(aggregated, shared.Candlestick{
				Open:      candle.Open,
				High:      candle.High,
				Low:       candle.Low,
				Close:     candle.Close,
				Volume:    candle.Volume,
				Date:      start,
				Market:    market,
				Timeframe: timeframe,
			})
			currentBucket = bucket
			coverage = candle.Timeframe.Duration()
			continue
		}

		last := &aggregated[len(aggregated)-1]
		if candle.High > last.High {
			last.High = candle.High
		}
		if candle.Low < last.Low {
			last.Low = candle.Low
		}
		last.Close = candle.Close
		last.Volume += candle.Volume
		coverage += candle.Timeframe.Duration()
	}

	// Flag the trailing interval partial when the source data spans less than
	// the full interval width, whether it ends early or starts late.
	if coverage < width {
		aggregated[len(aggregated)-1].Partial = true
	}

	return aggregated, nil
}

// bucketIndex returns the index of the half open interval containing the
// provided instant, relative to the anchor. Instants before the anchor map to
// negative indices.
func bucketIndex(date time.Time, anchor time.Time, width time.Duration) int64 {
	offset := date.Sub(anchor)
	bucket := int64(offset / width)
	if offset < 0 && offset%width != 0 {
		bucket--
	}

	return bucket
}
