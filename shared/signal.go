package shared

import (
	"time"
)

// EntrySignal represents an entry signal for a position.
type EntrySignal struct {
	Market    string
	Timeframe Timeframe
	Direction Direction
	Price     float64
	Reason    Reason
	StopLoss  float64
	Target    float64
	CreatedOn time.Time
}

// NewEntrySignal initializes a new entry signal.
func NewEntrySignal(market string, timeframe Timeframe, direction Direction, price float64,
	reason Reason, created time.Time, stopLoss float64, target float64) EntrySignal {
	return EntrySignal{
		Market:    market,
		Timeframe: timeframe,
		Direction: direction,
		Price:     price,
		Reason:    reason,
		CreatedOn: created,
		StopLoss:  stopLoss,
		Target:    target,
	}
}

// ExitSignal represents an exit signal for a position.
type ExitSignal struct {
	Market    string
	Timeframe Timeframe
	Direction Direction
	Price     float64
	Reason    ExitReason
	CreatedOn time.Time
}

// NewExitSignal initializes a new exit signal.
func NewExitSignal(market string, timeframe Timeframe, direction Direction, price float64,
	reason ExitReason, created time.Time) ExitSignal {
	return ExitSignal{
		Market:    market,
		Timeframe: timeframe,
		Direction: direction,
		Price:     price,
		Reason:    reason,
		CreatedOn: created,
	}
}
