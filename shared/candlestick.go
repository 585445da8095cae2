package shared

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// Sentiment represents the candlestick sentiment.
type Sentiment int

const (
	Neutral Sentiment = iota
	Bullish
	Bearish
)

// String stringifies the provided sentiment.
func (s Sentiment) String() string {
	switch s {
	case Neutral:
		return "neutral"
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "unknown"
	}
}

// Candlestick represents a unit candlestick for a market.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata and derived fields.
	Market    string
	Timeframe Timeframe
	// Partial marks a trailing aggregated candle covering less than a full
	// interval. Strategies must not act on partial candles.
	Partial bool
}

// FetchSentiment returns the provided candlestick's sentiment.
func (c *Candlestick) FetchSentiment() Sentiment {
	sentiment := c.Close - c.Open
	switch {
	case sentiment < 0:
		return Bearish
	case sentiment > 0:
		return Bullish
	default:
		return Neutral
	}
}

// Range returns the high-to-low range of the candlestick.
func (c *Candlestick) Range() float64 {
	return c.High - c.Low
}

// ParseCandlesticks parses candlesticks for the provided market and timeframe
// from the provided results.
func ParseCandlesticks(data []gjson.Result, market string, timeframe Timeframe, loc *time.Location) ([]Candlestick, error) {
	candles := make([]Candlestick, 0, len(data))
	for idx := range data {
		dateStr := data[idx].Get("date").String()
		date, err := time.ParseInLocation(DateLayout, dateStr, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing candlestick date '%s': %w", dateStr, err)
		}

		candle := Candlestick{
			Open:      data[idx].Get("open").Float(),
			High:      data[idx].Get("high").Float(),
			Low:       data[idx].Get("low").Float(),
			Close:     data[idx].Get("close").Float(),
			Volume:    data[idx].Get("volume").Float(),
			Date:      date,
			Market:    market,
			Timeframe: timeframe,
		}

		candles = append(candles, candle)
	}

	return candles, nil
}
