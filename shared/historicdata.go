package shared

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// HistoricDataConfig represents the historic data source configuration.
type HistoricDataConfig struct {
	// FilePath is the filepath to the historic market data.
	FilePath string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// HistoricData represents a base resolution historic bar source for a market.
//
// The expected payload is a json document of the form:
//
//	{
//	  "market": "MYM",
//	  "resolution": "1m",
//	  "candles": [
//	    {"date": "2024-07-29 09:30:00", "open": 100, "high": 103, "low": 99, "close": 102, "volume": 1200},
//	    ...
//	  ]
//	}
//
// Candle dates are interpreted in new york time. Ordering is not corrected
// here, the aggregator rejects non-monotonic input per session.
type HistoricData struct {
	cfg        *HistoricDataConfig
	market     string
	resolution Timeframe
	location   *time.Location
	candles    []Candlestick
	startTime  time.Time
	endTime    time.Time
}

// loadHistoricData loads the historic data bytes from the provided file path.
func loadHistoricData(filepath string) (*gjson.Result, error) {
	readb, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading historic data from file with path '%s': %w", filepath, err)
	}

	b := gjson.ParseBytes(readb)

	return &b, nil
}

// NewHistoricData initializes a new historic data source.
func NewHistoricData(cfg *HistoricDataConfig) (*HistoricData, error) {
	b, err := loadHistoricData(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("loading historic data: %w", err)
	}

	market := b.Get("market").String()
	if market == "" {
		return nil, fmt.Errorf("historic data has no market")
	}

	resolution, err := ParseTimeframe(b.Get("resolution").String())
	if err != nil {
		return nil, fmt.Errorf("parsing historic data resolution: %w", err)
	}

	loc, err := NewYorkLoc()
	if err != nil {
		return nil, err
	}

	data := b.Get("candles").Array()
	if len(data) == 0 {
		return nil, fmt.Errorf("historic data has no candles")
	}

	candles, err := ParseCandlesticks(data, market, resolution, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing candlesticks: %w", err)
	}

	historicData := &HistoricData{
		cfg:        cfg,
		market:     market,
		resolution: resolution,
		location:   loc,
		candles:    candles,
		startTime:  candles[0].Date,
		endTime:    candles[len(candles)-1].Date,
	}

	timeDiffInHours := historicData.endTime.Sub(historicData.startTime).Hours()
	cfg.Logger.Info().Msgf("loaded %d %s %s candles covering %.2f hours, from %s, to %s",
		len(candles), market, resolution.String(), timeDiffInHours,
		historicData.startTime.Format(time.RFC1123), historicData.endTime.Format(time.RFC1123))

	return historicData, nil
}

// FetchMarket returns the backtest market.
func (h *HistoricData) FetchMarket() string {
	return h.market
}

// FetchResolution returns the base resolution of the loaded candles.
func (h *HistoricData) FetchResolution() Timeframe {
	return h.resolution
}

// FetchCandles returns the loaded base resolution candles.
func (h *HistoricData) FetchCandles() []Candlestick {
	return h.candles
}

// FetchStartTime returns the start time of the loaded historical data.
func (h *HistoricData) FetchStartTime() time.Time {
	return h.startTime
}

// FetchEndTime returns the end time of the loaded historical data.
func (h *HistoricData) FetchEndTime() time.Time {
	return h.endTime
}

// FetchSessionDates returns the distinct new york calendar days covered by the
// loaded candles, in chronological order.
func (h *HistoricData) FetchSessionDates() []time.Time {
	dates := make([]time.Time, 0)
	seen := make(map[string]bool)
	for idx := range h.candles {
		day := h.candles[idx].Date.In(h.location)
		key := day.Format(time.DateOnly)
		if seen[key] {
			continue
		}

		seen[key] = true
		dates = append(dates, time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, h.location))
	}

	return dates
}

// FetchSessionCandles returns the candles for the provided new york calendar day.
func (h *HistoricData) FetchSessionCandles(day time.Time) []Candlestick {
	candles := make([]Candlestick, 0)
	for idx := range h.candles {
		date := h.candles[idx].Date.In(h.location)
		if date.Year() == day.Year() && date.Month() == day.Month() && date.Day() == day.Day() {
			candles = append(candles, h.candles[idx])
		}
	}

	return candles
}
