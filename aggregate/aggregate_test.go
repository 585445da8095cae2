package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// minuteCandles builds one minute candles for the provided market starting at
// the provided instant, one per provided ohlcv row.
func minuteCandles(market string, start time.Time, rows [][5]float64) []shared.Candlestick {
	candles := make([]shared.Candlestick, 0, len(rows))
	for idx := range rows {
		candles = append(candles, shared.Candlestick{
			Open:      rows[idx][0],
			High:      rows[idx][1],
			Low:       rows[idx][2],
			Close:     rows[idx][3],
			Volume:    rows[idx][4],
			Date:      start.Add(time.Duration(idx) * time.Minute),
			Market:    market,
			Timeframe: shared.OneMinute,
		})
	}

	return candles
}

func TestAggregate(t *testing.T) {
	loc, err := shared.NewYorkLoc()
	assert.NoError(t, err)

	day := time.Date(2024, 7, 29, 0, 0, 0, 0, loc)
	start := time.Date(2024, 7, 29, 9, 30, 0, 0, loc)

	candles := minuteCandles("MYM", start, [][5]float64{
		{100, 101, 99, 100.5, 10},
		{101, 102, 100, 101.5, 10},
		{102, 103, 101, 102.5, 10},
		{103, 104, 102, 103.5, 10},
		{104, 105, 103, 104.5, 10},
		{105, 106, 104, 105.5, 10},
		{106, 107, 105, 106.5, 10},
	})

	aggregated, err := Aggregate(candles, shared.FiveMinute, day)
	assert.NoError(t, err)
	assert.Equal(t, len(aggregated), 2)

	first := aggregated[0]
	assert.True(t, first.Date.Equal(start))
	assert.Equal(t, first.Open, float64(100))
	assert.Equal(t, first.High, float64(105))
	assert.Equal(t, first.Low, float64(99))
	assert.Equal(t, first.Close, float64(104.5))
	assert.Equal(t, first.Volume, float64(50))
	assert.Equal(t, first.Timeframe, shared.FiveMinute)
	assert.False(t, first.Partial)

	// The second interval only covers two source minutes of its five.
	second := aggregated[1]
	assert.True(t, second.Date.Equal(start.Add(time.Minute*5)))
	assert.Equal(t, second.Open, float64(105))
	assert.Equal(t, second.High, float64(107))
	assert.Equal(t, second.Low, float64(104))
	assert.Equal(t, second.Close, float64(106.5))
	assert.Equal(t, second.Volume, float64(20))
	assert.True(t, second.Partial)
}

func TestAggregateGaps(t *testing.T) {
	loc, err := shared.NewYorkLoc()
	assert.NoError(t, err)

	day := time.Date(2024, 7, 29, 0, 0, 0, 0, loc)
	start := time.Date(2024, 7, 29, 9, 30, 0, 0, loc)

	// A quiet market can have no trades for entire intervals, empty intervals
	// produce no candles.
	candles := []shared.Candlestick{
		{Open: 100, High: 101, Low: 99, Close: 100, Volume: 5, Date: start,
			Market: "MYM", Timeframe: shared.OneMinute},
		{Open: 101, High: 102, Low: 100, Close: 101, Volume: 5, Date: start.Add(time.Minute * 11),
			Market: "MYM", Timeframe: shared.OneMinute},
	}

	aggregated, err := Aggregate(candles, shared.FiveMinute, day)
	assert.NoError(t, err)
	assert.Equal(t, len(aggregated), 2)
	assert.True(t, aggregated[0].Date.Equal(start))
	assert.True(t, aggregated[1].Date.Equal(start.Add(time.Minute*10)))
}

func TestAggregateTrailingCoverage(t *testing.T) {
	loc, err := shared.NewYorkLoc()
	assert.NoError(t, err)

	day := time.Date(2024, 7, 29, 0, 0, 0, 0, loc)
	start := time.Date(2024, 7, 29, 9, 30, 0, 0, loc)

	// A trailing interval whose data starts late is partial even when its
	// last source minute ends exactly on the interval boundary.
	late := minuteCandles("MYM", start.Add(time.Minute*3), [][5]float64{
		{100, 101, 99, 100, 5},
		{100, 101, 99, 100, 5},
	})

	aggregated, err := Aggregate(late, shared.FiveMinute, day)
	assert.NoError(t, err)
	assert.Equal(t, len(aggregated), 1)
	assert.True(t, aggregated[0].Date.Equal(start))
	assert.True(t, aggregated[0].Partial)

	// A trailing interval fully spanned by source data is complete.
	full := minuteCandles("MYM", start, [][5]float64{
		{100, 101, 99, 100, 5},
		{100, 101, 99, 100, 5},
		{100, 101, 99, 100, 5},
		{100, 101, 99, 100, 5},
		{100, 101, 99, 100, 5},
	})

	aggregated, err = Aggregate(full, shared.FiveMinute, day)
	assert.NoError(t, err)
	assert.Equal(t, len(aggregated), 1)
	assert.False(t, aggregated[0].Partial)
}

func TestAggregateAnchorAlignment(t *testing.T) {
	loc, err := shared.NewYorkLoc()
	assert.NoError(t, err)

	anchor := time.Date(2024, 7, 29, 9, 30, 0, 0, loc)

	// Candles before the anchor land in negative intervals still aligned to it.
	candles := []shared.Candlestick{
		{Open: 100, High: 101, Low: 99, Close: 100, Volume: 5, Date: anchor.Add(-time.Minute * 2),
			Market: "MYM", Timeframe: shared.OneMinute},
		{Open: 100, High: 101, Low: 99, Close: 100, Volume: 5, Date: anchor,
			Market: "MYM", Timeframe: shared.OneMinute},
	}

	aggregated, err := Aggregate(candles, shared.FiveMinute, anchor)
	assert.NoError(t, err)
	assert.Equal(t, len(aggregated), 2)
	assert.True(t, aggregated[0].Date.Equal(anchor.Add(-time.Minute*5)))
	assert.True(t, aggregated[1].Date.Equal(anchor))
}

func TestAggregateErrors(t *testing.T) {
	loc, err := shared.NewYorkLoc()
	assert.NoError(t, err)

	day := time.Date(2024, 7, 29, 0, 0, 0, 0, loc)
	start := time.Date(2024, 7, 29, 9, 30, 0, 0, loc)

	// Ensure an empty source yields an empty result.
	aggregated, err := Aggregate([]shared.Candlestick{}, shared.FiveMinute, day)
	assert.NoError(t, err)
	assert.Equal(t, len(aggregated), 0)

	// Ensure an invalid target timeframe is an error.
	candles := minuteCandles("MYM", start, [][5]float64{{100, 101, 99, 100, 5}})
	_, err = Aggregate(candles, shared.Timeframe(999), day)
	assert.Error(t, err)

	// Ensure mixed markets are rejected as malformed input.
	mixed := minuteCandles("MYM", start, [][5]float64{{100, 101, 99, 100, 5}, {100, 101, 99, 100, 5}})
	mixed[1].Market = "MES"
	_, err = Aggregate(mixed, shared.FiveMinute, day)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrMalformedInput))

	// Ensure non increasing timestamps are rejected as malformed input.
	unordered := minuteCandles("MYM", start, [][5]float64{{100, 101, 99, 100, 5}, {100, 101, 99, 100, 5}})
	unordered[1].Date = unordered[0].Date
	_, err = Aggregate(unordered, shared.FiveMinute, day)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrMalformedInput))
}
