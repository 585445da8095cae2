package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/ricketter1984/NY-Opening-Bell/position"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
	"github.com/ricketter1984/NY-Opening-Bell/strategy"
)

// Config represents the backtest run configuration.
type Config struct {
	// Timeframe is the aggregated timeframe evaluated by strategies.
	Timeframe shared.Timeframe
	// SessionOpen is the session open clock time in new york, eg. "09:30".
	SessionOpen string
	// SessionCutoffMinutes bounds the evaluation window after the open.
	SessionCutoffMinutes int
	// AnchorSessionOpen aligns aggregation intervals to the session open
	// instead of midnight.
	AnchorSessionOpen bool
	// ATRPeriod is the average true range lookback period.
	ATRPeriod int
	// StopATRMultiple sizes stops from the entry price.
	StopATRMultiple float64
	// TargetATRMultiple sizes targets from the entry price.
	TargetATRMultiple float64
	// BreakoutRangeATRMultiple is the momentum entry range threshold.
	BreakoutRangeATRMultiple float64
	// ReversalMoveATRMultiple is the fake move excursion threshold.
	ReversalMoveATRMultiple float64
	// ReversalLookbackBars bounds the sweep and reversal pattern.
	ReversalLookbackBars int
	// TieBreak is the stop/target same-candle ordering policy.
	TieBreak position.TieBreak
	// Strategies are the strategy variants evaluated per session.
	Strategies []strategy.Kind
	// PositionSize is the size applied to accepted entries.
	PositionSize float64
}

// Validate asserts the config has sane inputs. A failure here is fatal before
// any session is processed.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.Timeframe == shared.OneSecond || cfg.Timeframe.Duration() == 0 {
		errs = errors.Join(errs, fmt.Errorf("timeframe must be one of the aggregated timeframes, got %s",
			cfg.Timeframe.String()))
	}
	if _, err := time.Parse(shared.SessionTimeLayout, cfg.SessionOpen); err != nil {
		errs = errors.Join(errs, fmt.Errorf("parsing session open %q: %v", cfg.SessionOpen, err))
	}
	if cfg.SessionCutoffMinutes <= 0 {
		errs = errors.Join(errs, fmt.Errorf("session cutoff minutes must be positive, got %d",
			cfg.SessionCutoffMinutes))
	}
	if cfg.ATRPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("atr period must be positive, got %d", cfg.ATRPeriod))
	}
	if cfg.StopATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("stop atr multiple must be positive, got %v", cfg.StopATRMultiple))
	}
	if cfg.TargetATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("target atr multiple must be positive, got %v", cfg.TargetATRMultiple))
	}
	if cfg.BreakoutRangeATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("breakout range atr multiple must be positive, got %v",
			cfg.BreakoutRangeATRMultiple))
	}
	if cfg.ReversalMoveATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("reversal move atr multiple must be positive, got %v",
			cfg.ReversalMoveATRMultiple))
	}
	if cfg.ReversalLookbackBars <= 0 {
		errs = errors.Join(errs, fmt.Errorf("reversal lookback bars must be positive, got %d",
			cfg.ReversalLookbackBars))
	}
	if len(cfg.Strategies) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no strategies provided for the backtest"))
	}
	if cfg.PositionSize <= 0 {
		errs = errors.Join(errs, fmt.Errorf("position size must be positive, got %v", cfg.PositionSize))
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", shared.ErrConfiguration, errs)
	}

	return nil
}

// Cutoff returns the session cutoff as a duration.
func (cfg *Config) Cutoff() time.Duration {
	return time.Duration(cfg.SessionCutoffMinutes) * time.Minute
}
