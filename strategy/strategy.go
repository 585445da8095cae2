package strategy

import (
	"fmt"

	"github.com/ricketter1984/NY-Opening-Bell/indicator"
	"github.com/ricketter1984/NY-Opening-Bell/position"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// Kind represents a supported strategy variant. The set is closed, new
// variants are added as new tagged cases.
type Kind int

const (
	MomentumBreakout Kind = iota
	ReversalAfterFakeMove
)

// String stringifies the provided strategy kind.
func (k Kind) String() string {
	switch k {
	case MomentumBreakout:
		return "momentum-breakout"
	case ReversalAfterFakeMove:
		return "reversal-after-fake-move"
	default:
		return "unknown"
	}
}

// ParseKind parses a strategy kind from the provided string.
func ParseKind(kind string) (Kind, error) {
	switch kind {
	case "momentum", "momentum-breakout":
		return MomentumBreakout, nil
	case "reversal", "reversal-after-fake-move":
		return ReversalAfterFakeMove, nil
	default:
		return 0, fmt.Errorf("unknown strategy kind: %s", kind)
	}
}

// Config represents the shared strategy configuration.
type Config struct {
	// StopATRMultiple sizes the stop distance from the entry price.
	StopATRMultiple float64
	// TargetATRMultiple sizes the target distance from the entry price.
	TargetATRMultiple float64
	// BreakoutRangeATRMultiple is the minimum combined opening range, in
	// multiples of the current atr, for a momentum breakout entry.
	BreakoutRangeATRMultiple float64
	// ReversalMoveATRMultiple is the minimum initial excursion from the
	// session open, in multiples of the current atr, for a fake move.
	ReversalMoveATRMultiple float64
	// ReversalLookbackBars is the number of session bars within which a
	// sweep and reversal must complete.
	ReversalLookbackBars int
}

// Strategy defines the entry and exit capabilities of a session strategy.
// Evaluation proceeds candle by candle in chronological order, the provided
// window only ever contains candles up to and including the current one.
type Strategy interface {
	// Name returns the strategy name.
	Name() string
	// EvaluateEntry evaluates the session window seen so far for an entry.
	EvaluateEntry(window []shared.Candlestick, atr *indicator.ATRGenerator) *shared.EntrySignal
	// EvaluateExit evaluates the provided candle for a discretionary exit of
	// the open position. Stop, target and cutoff exits are owned by the
	// position tracker.
	EvaluateExit(pos *position.Position, candle *shared.Candlestick, atr *indicator.ATRGenerator) *shared.ExitSignal
}

// New initializes a strategy of the provided kind.
func New(kind Kind, cfg *Config) (Strategy, error) {
	switch kind {
	case MomentumBreakout:
		return NewMomentum(cfg), nil
	case ReversalAfterFakeMove:
		return NewReversal(cfg), nil
	default:
		return nil, fmt.Errorf("unknown strategy kind: %d", kind)
	}
}

// stopTarget derives atr sized stop and target prices for the provided entry.
func stopTarget(direction shared.Direction, entryPrice float64, atr float64, cfg *Config) (float64, float64) {
	switch direction {
	case shared.Short:
		return entryPrice + (cfg.StopATRMultiple * atr), entryPrice - (cfg.TargetATRMultiple * atr)
	default:
		return entryPrice - (cfg.StopATRMultiple * atr), entryPrice + (cfg.TargetATRMultiple * atr)
	}
}
