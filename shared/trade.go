package shared

import (
	"math"
	"time"
)

// Trade represents a closed position, immutable once appended to the trade log.
type Trade struct {
	ID          string
	Market      string
	SessionDate time.Time
	Strategy    string
	Timeframe   Timeframe
	Direction   Direction
	EntryPrice  float64
	EntryTime   time.Time
	ExitPrice   float64
	ExitTime    time.Time
	ExitReason  ExitReason
	Size        float64
	PNL         float64
	RMultiple   float64
	BarsHeld    int
}

// PNLPoints returns the direction signed price movement for the provided
// entry and exit prices.
func PNLPoints(direction Direction, entryPrice float64, exitPrice float64) float64 {
	switch direction {
	case Short:
		return entryPrice - exitPrice
	default:
		return exitPrice - entryPrice
	}
}

// RMultiple returns the pnl expressed as a multiple of the risked points,
// where risk is the distance from entry to the initial stop.
func RMultiple(direction Direction, entryPrice float64, exitPrice float64, stopLoss float64) float64 {
	risk := math.Abs(entryPrice - stopLoss)
	if risk == 0 {
		return 0
	}

	return PNLPoints(direction, entryPrice, exitPrice) / risk
}
