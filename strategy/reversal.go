package strategy

import (
	"github.com/ricketter1984/NY-Opening-Bell/indicator"
	"github.com/ricketter1984/NY-Opening-Bell/position"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// Reversal implements the reversal after a fake move strategy. It waits for
// an initial excursion from the session open price exceeding an atr multiple,
// then enters against that move on the candle that closes back across the
// session open.
type Reversal struct {
	cfg *Config
}

// Ensure Reversal implements the Strategy interface.
var _ Strategy = (*Reversal)(nil)

// NewReversal initializes a new sweep reversal strategy.
func NewReversal(cfg *Config) *Reversal {
	return &Reversal{cfg: cfg}
}

// Name returns the strategy name.
func (r *Reversal) Name() string {
	return ReversalAfterFakeMove.String()
}

// EvaluateEntry evaluates the session window seen so far for an entry.
func (r *Reversal) EvaluateEntry(window []shared.Candlestick, atr *indicator.ATRGenerator) *shared.EntrySignal {
	// A sweep needs at least one candle of movement before the reclaim, and
	// the whole pattern must complete within the lookback.
	if len(window) < 2 || len(window) > r.cfg.ReversalLookbackBars {
		return nil
	}

	current := &window[len(window)-1]
	if current.Partial {
		return nil
	}

	value, ok := atr.Value()
	if !ok {
		// No stop sizing possible yet.
		return nil
	}

	openPrice := window[0].Open
	lowest, highest := window[0].Low, window[0].High
	for idx := range window {
		if window[idx].Low < lowest {
			lowest = window[idx].Low
		}
		if window[idx].High > highest {
			highest = window[idx].High
		}
	}

	threshold := r.cfg.ReversalMoveATRMultiple * value

	var direction shared.Direction
	switch {
	case openPrice-lowest >= threshold && current.Close > openPrice:
		// A downward sweep failed to hold, fade it.
		direction = shared.Long
	case highest-openPrice >= threshold && current.Close < openPrice:
		// An upward sweep failed to hold, fade it.
		direction = shared.Short
	default:
		return nil
	}

	entryPrice := current.Close
	stopLoss, target := stopTarget(direction, entryPrice, value, r.cfg)

	signal := shared.NewEntrySignal(current.Market, current.Timeframe, direction, entryPrice,
		shared.SweepReversal, current.Date, stopLoss, target)

	return &signal
}

// EvaluateExit evaluates the provided candle for a discretionary exit. The
// sweep reversal holds to its stop, target or the session cutoff.
func (r *Reversal) EvaluateExit(pos *position.Position, candle *shared.Candlestick, atr *indicator.ATRGenerator) *shared.ExitSignal {
	return nil
}
