package position

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// Position represents a live market position opened by an accepted entry signal.
type Position struct {
	ID          string
	Market      string
	SessionDate time.Time
	Strategy    string
	Timeframe   shared.Timeframe
	Direction   shared.Direction
	EntryPrice  float64
	EntryTime   time.Time
	StopLoss    float64
	Target      float64
	Size        float64
	BarsHeld    int
}

// NewPosition initializes a new position.
func NewPosition(entry *shared.EntrySignal, sessionDate time.Time, strategy string, size float64) (*Position, error) {
	if entry == nil {
		return nil, fmt.Errorf("entry signal cannot be nil")
	}
	if size <= 0 {
		return nil, fmt.Errorf("position size must be positive, got %v", size)
	}

	pos := &Position{
		ID:          uuid.New().String(),
		Market:      entry.Market,
		SessionDate: sessionDate,
		Strategy:    strategy,
		Timeframe:   entry.Timeframe,
		Direction:   entry.Direction,
		EntryPrice:  entry.Price,
		EntryTime:   entry.CreatedOn,
		StopLoss:    entry.StopLoss,
		Target:      entry.Target,
		Size:        size,
	}

	return pos, nil
}

// Trade converts the position to a closed trade using the provided exit details.
func (p *Position) Trade(exitPrice float64, exitTime time.Time, reason shared.ExitReason) *shared.Trade {
	return &shared.Trade{
		ID:          p.ID,
		Market:      p.Market,
		SessionDate: p.SessionDate,
		Strategy:    p.Strategy,
		Timeframe:   p.Timeframe,
		Direction:   p.Direction,
		EntryPrice:  p.EntryPrice,
		EntryTime:   p.EntryTime,
		ExitPrice:   exitPrice,
		ExitTime:    exitTime,
		ExitReason:  reason,
		Size:        p.Size,
		PNL:         shared.PNLPoints(p.Direction, p.EntryPrice, exitPrice) * p.Size,
		RMultiple:   shared.RMultiple(p.Direction, p.EntryPrice, exitPrice, p.StopLoss),
		BarsHeld:    p.BarsHeld,
	}
}
