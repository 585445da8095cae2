package position

import (
	"fmt"
	"time"

	"github.com/ricketter1984/NY-Opening-Bell/shared"
	"github.com/rs/zerolog"
)

// State represents the lifecycle state of a session position tracker.
type State int

const (
	Flat State = iota
	Open
	Closed
)

// String stringifies the provided state.
func (s State) String() string {
	switch s {
	case Flat:
		return "flat"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// TieBreak represents the exit policy applied when a single candle's range
// crosses both the stop and the target. The true intrabar path is unknown
// from ohlc data, so the ordering is a policy choice.
type TieBreak int

const (
	// StopFirst assumes the worst case ordering, the stop is hit first.
	StopFirst TieBreak = iota
	TargetFirst
)

// String stringifies the provided tie break policy.
func (b TieBreak) String() string {
	switch b {
	case StopFirst:
		return "stop_first"
	case TargetFirst:
		return "target_first"
	default:
		return "unknown"
	}
}

// ParseTieBreak parses a tie break policy from the provided string.
func ParseTieBreak(policy string) (TieBreak, error) {
	switch policy {
	case "stop_first":
		return StopFirst, nil
	case "target_first":
		return TargetFirst, nil
	default:
		return 0, fmt.Errorf("unknown tie break policy: %s", policy)
	}
}

// TrackerConfig represents the position tracker configuration.
type TrackerConfig struct {
	// Market is the tracked market.
	Market string
	// SessionDate is the session day the tracker is scoped to.
	SessionDate time.Time
	// Strategy is the name of the strategy driving the tracker.
	Strategy string
	// Size is the position size applied to accepted entries.
	Size float64
	// TieBreak is the stop/target same-candle ordering policy.
	TieBreak TieBreak
	// OnTrade hands the provided closed trade to the trade log.
	OnTrade func(trade *shared.Trade)
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Tracker owns the lifecycle of at most one position for a market session.
// Transitions are Flat -> Open on an accepted entry signal and Open -> Closed
// on a stop, target, discretionary or cutoff exit. Closed is terminal for the
// session.
type Tracker struct {
	cfg      *TrackerConfig
	state    State
	position *Position
}

// NewTracker initializes a new position tracker.
func NewTracker(cfg *TrackerConfig) *Tracker {
	return &Tracker{
		cfg:   cfg,
		state: Flat,
	}
}

// State returns the current tracker state.
func (t *Tracker) State() State {
	return t.state
}

// Position returns the currently open position, nil when none is open.
func (t *Tracker) Position() *Position {
	return t.position
}

// HandleEntrySignal processes the provided entry signal. A signal is rejected
// unless the tracker is flat, at most one position may exist per session.
func (t *Tracker) HandleEntrySignal(signal *shared.EntrySignal) error {
	if t.state != Flat {
		return fmt.Errorf("rejected entry signal for %s on %s: tracker is %s",
			t.cfg.Market, t.cfg.SessionDate.Format(time.DateOnly), t.state.String())
	}

	pos, err := NewPosition(signal, t.cfg.SessionDate, t.cfg.Strategy, t.cfg.Size)
	if err != nil {
		return fmt.Errorf("creating new position: %w", err)
	}

	t.position = pos
	t.state = Open

	t.cfg.Logger.Info().Msgf("opened %s position (%s) for %s @ %f with stop %f and target %f",
		pos.Direction.String(), pos.ID, pos.Market, pos.EntryPrice, pos.StopLoss, pos.Target)

	return nil
}

// HandleExitSignal processes the provided discretionary exit signal.
func (t *Tracker) HandleExitSignal(signal *shared.ExitSignal) (*shared.Trade, error) {
	if t.state != Open {
		return nil, fmt.Errorf("rejected exit signal for %s on %s: tracker is %s",
			t.cfg.Market, t.cfg.SessionDate.Format(time.DateOnly), t.state.String())
	}

	return t.close(signal.Price, signal.CreatedOn, signal.Reason), nil
}

// Update applies stop and target exit checks for the provided candle to the
// open position. It returns the closed trade if an exit triggered.
func (t *Tracker) Update(candle *shared.Candlestick) (*shared.Trade, error) {
	if t.state != Open {
		return nil, nil
	}

	t.position.BarsHeld++

	var stopHit, targetHit bool
	switch t.position.Direction {
	case shared.Long:
		stopHit = candle.Low <= t.position.StopLoss
		targetHit = candle.High >= t.position.Target
	case shared.Short:
		stopHit = candle.High >= t.position.StopLoss
		targetHit = candle.Low <= t.position.Target
	default:
		return nil, fmt.Errorf("unknown direction for position: %s", t.position.Direction.String())
	}

	switch {
	case stopHit && targetHit:
		// The candle spans both levels, apply the configured ordering policy.
		if t.cfg.TieBreak == TargetFirst {
			return t.close(t.position.Target, candle.Date, shared.TargetHit), nil
		}
		return t.close(t.position.StopLoss, candle.Date, shared.StopHit), nil
	case stopHit:
		return t.close(t.position.StopLoss, candle.Date, shared.StopHit), nil
	case targetHit:
		return t.close(t.position.Target, candle.Date, shared.TargetHit), nil
	default:
		return nil, nil
	}
}

// CloseAtCutoff closes the open position at the provided cutoff candle's close.
func (t *Tracker) CloseAtCutoff(candle *shared.Candlestick) (*shared.Trade, error) {
	if t.state != Open {
		return nil, nil
	}

	return t.close(candle.Close, candle.Date, shared.TimeExit), nil
}

// close converts the open position to a trade and hands it to the trade log.
func (t *Tracker) close(exitPrice float64, exitTime time.Time, reason shared.ExitReason) *shared.Trade {
	trade := t.position.Trade(exitPrice, exitTime, reason)

	t.position = nil
	t.state = Closed

	if t.cfg.OnTrade != nil {
		t.cfg.OnTrade(trade)
	}

	t.cfg.Logger.Info().Msgf("closed %s position (%s) for %s @ %f (%s), pnl %f",
		trade.Direction.String(), trade.ID, trade.Market, trade.ExitPrice,
		trade.ExitReason.String(), trade.PNL)

	return trade
}
