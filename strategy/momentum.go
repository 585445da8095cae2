package strategy

import (
	"math"

	"github.com/ricketter1984/NY-Opening-Bell/indicator"
	"github.com/ricketter1984/NY-Opening-Bell/position"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// Momentum implements the momentum breakout strategy. It observes the first
// two candles after the session open and enters in their shared direction at
// the close of the second candle when the combined opening range is wide
// enough relative to the current atr.
type Momentum struct {
	cfg *Config
}

// Ensure Momentum implements the Strategy interface.
var _ Strategy = (*Momentum)(nil)

// NewMomentum initializes a new momentum breakout strategy.
func NewMomentum(cfg *Config) *Momentum {
	return &Momentum{cfg: cfg}
}

// Name returns the strategy name.
func (m *Momentum) Name() string {
	return MomentumBreakout.String()
}

// EvaluateEntry evaluates the session window seen so far for an entry.
func (m *Momentum) EvaluateEntry(window []shared.Candlestick, atr *indicator.ATRGenerator) *shared.EntrySignal {
	// The setup is decided on the second candle of the session, there is no
	// later opportunity for a breakout entry.
	if len(window) != 2 {
		return nil
	}

	first, second := &window[0], &window[1]
	if first.Partial || second.Partial {
		return nil
	}

	value, ok := atr.Value()
	if !ok {
		// No stop sizing possible yet.
		return nil
	}

	var direction shared.Direction
	switch {
	case first.FetchSentiment() == shared.Bullish && second.FetchSentiment() == shared.Bullish:
		direction = shared.Long
	case first.FetchSentiment() == shared.Bearish && second.FetchSentiment() == shared.Bearish:
		direction = shared.Short
	default:
		// The opening candles disagree on direction.
		return nil
	}

	// The combined range must exceed the threshold, not merely meet it.
	combinedRange := math.Max(first.High, second.High) - math.Min(first.Low, second.Low)
	if combinedRange <= m.cfg.BreakoutRangeATRMultiple*value {
		return nil
	}

	entryPrice := second.Close
	stopLoss, target := stopTarget(direction, entryPrice, value, m.cfg)

	signal := shared.NewEntrySignal(second.Market, second.Timeframe, direction, entryPrice,
		shared.MomentumBreakout, second.Date, stopLoss, target)

	return &signal
}

// EvaluateExit evaluates the provided candle for a discretionary exit. The
// momentum breakout holds to its stop, target or the session cutoff.
func (m *Momentum) EvaluateExit(pos *position.Position, candle *shared.Candlestick, atr *indicator.ATRGenerator) *shared.ExitSignal {
	return nil
}
