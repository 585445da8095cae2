package market

import (
	"fmt"
	"time"

	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// Session represents one trading day's evaluation window for a market,
// anchored to the new york open. Read-only after windowing.
type Session struct {
	Market  string
	Date    time.Time
	Open    time.Time
	Cutoff  time.Time
	Candles []shared.Candlestick
}

// NewSession initializes a new session for the provided market and day.
// The provided day must be in new york time and the open is a clock time of
// the form "09:30".
func NewSession(market string, day time.Time, open string, cutoff time.Duration) (*Session, error) {
	sessionOpen, err := time.Parse(shared.SessionTimeLayout, open)
	if err != nil {
		return nil, fmt.Errorf("parsing session open: %w", err)
	}

	loc := day.Location()
	if loc.String() != shared.NewYorkLocation {
		return nil, fmt.Errorf("expected new york location for provided day, got %v", loc.String())
	}

	if cutoff <= 0 {
		return nil, fmt.Errorf("session cutoff must be positive, got %v", cutoff)
	}

	sOpen := time.Date(day.Year(), day.Month(), day.Day(), sessionOpen.Hour(), sessionOpen.Minute(), 0, 0, loc)

	session := &Session{
		Market: market,
		Date:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc),
		Open:   sOpen,
		Cutoff: sOpen.Add(cutoff),
	}

	return session, nil
}

// IsWithin checks whether the provided instant falls within the session window.
func (s *Session) IsWithin(date time.Time) bool {
	return (date.Equal(s.Open) || date.After(s.Open)) && date.Before(s.Cutoff)
}

// Window selects the ordered subsequence of the provided candles whose open
// time falls within the session window. Candles outside the window stay
// invisible to strategy evaluation.
func (s *Session) Window(candles []shared.Candlestick) error {
	windowed := make([]shared.Candlestick, 0, len(candles))
	for idx := range candles {
		if s.IsWithin(candles[idx].Date) {
			windowed = append(windowed, candles[idx])
		}
	}

	if len(windowed) == 0 {
		return fmt.Errorf("%w: no %s candles in [%s, %s)", shared.ErrEmptySession, s.Market,
			s.Open.Format(shared.DateLayout), s.Cutoff.Format(shared.DateLayout))
	}

	s.Candles = windowed

	return nil
}
