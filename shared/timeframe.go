package shared

import (
	"fmt"
	"time"
)

const (
	// SessionTimeLayout is the format layout for parsing session times in a day.
	SessionTimeLayout = "15:04"
	// DateLatout is the format layout for parsing dates.
	DateLayout = "2006-01-02 15:04:05"

	// NewYorkLocation is the locale used for session anchored times.
	NewYorkLocation = "America/New_York"
)

// Timeframe represents the market data time period.
type Timeframe int

const (
	// OneSecond is only valid as a base resolution for aggregation.
	OneSecond Timeframe = iota
	OneMinute
	TwoMinute
	ThreeMinute
	FiveMinute
	TenMinute
	FifteenMinute
)

// String stringifies the provided timeframe.
func (t Timeframe) String() string {
	switch t {
	case OneSecond:
		return "1s"
	case OneMinute:
		return "1m"
	case TwoMinute:
		return "2m"
	case ThreeMinute:
		return "3m"
	case FiveMinute:
		return "5m"
	case TenMinute:
		return "10m"
	case FifteenMinute:
		return "15m"
	default:
		return "unknown"
	}
}

// Duration returns the fixed width of the provided timeframe.
func (t Timeframe) Duration() time.Duration {
	switch t {
	case OneSecond:
		return time.Second
	case OneMinute:
		return time.Minute
	case TwoMinute:
		return time.Minute * 2
	case ThreeMinute:
		return time.Minute * 3
	case FiveMinute:
		return time.Minute * 5
	case TenMinute:
		return time.Minute * 10
	case FifteenMinute:
		return time.Minute * 15
	default:
		return 0
	}
}

// ParseTimeframe parses a timeframe from the provided string.
func ParseTimeframe(timeframe string) (Timeframe, error) {
	switch timeframe {
	case "1s":
		return OneSecond, nil
	case "1m":
		return OneMinute, nil
	case "2m":
		return TwoMinute, nil
	case "3m":
		return ThreeMinute, nil
	case "5m":
		return FiveMinute, nil
	case "10m":
		return TenMinute, nil
	case "15m":
		return FifteenMinute, nil
	default:
		return 0, fmt.Errorf("unknown timeframe: %s", timeframe)
	}
}

// NewYorkLoc returns the new york location (EST/EDT adjusted automatically).
func NewYorkLoc() (*time.Location, error) {
	loc, err := time.LoadLocation(NewYorkLocation)
	if err != nil {
		return nil, fmt.Errorf("loading new york timezone: %w", err)
	}

	return loc, nil
}

// NewYorkTime returns the current time in new york (EST/EDT adjusted automatically).
func NewYorkTime() (time.Time, *time.Location, error) {
	loc, err := NewYorkLoc()
	if err != nil {
		return time.Time{}, nil, err
	}

	now := time.Now().In(loc)
	return now, loc, nil
}
