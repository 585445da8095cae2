package backtest

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/ricketter1984/NY-Opening-Bell/aggregate"
	"github.com/ricketter1984/NY-Opening-Bell/indicator"
	"github.com/ricketter1984/NY-Opening-Bell/market"
	"github.com/ricketter1984/NY-Opening-Bell/position"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
	"github.com/ricketter1984/NY-Opening-Bell/strategy"
	"github.com/ricketter1984/NY-Opening-Bell/tradelog"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

const (
	// maxWorkers is the maximum number of concurrent session workers.
	maxWorkers = 8
	// progressInterval is the wall clock interval for progress reports.
	progressInterval = time.Second * 30
)

// Diagnostic represents a recorded per session processing failure.
type Diagnostic struct {
	Market   string
	Date     time.Time
	Strategy string
	Err      error
}

// RunnerConfig represents the backtest runner configuration.
type RunnerConfig struct {
	// Cfg is the backtest run configuration.
	Cfg *Config
	// HistoricData is the base resolution bar source.
	HistoricData *shared.HistoricData
	// TradeLog is the shared closed trade sink.
	TradeLog *tradelog.Builder
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Runner replays historic bars session by session and evaluates the
// configured strategies against them. Sessions are independent units, each
// worker owns its session's volatility and position state, only the trade log
// is shared.
type Runner struct {
	cfg               *RunnerConfig
	diagnostics       []*Diagnostic
	diagnosticsMtx    sync.Mutex
	workers           chan struct{}
	processedSessions atomic.Int64
	skippedSessions   atomic.Int64
	totalSessions     atomic.Int64
}

// NewRunner initializes a new backtest runner.
func NewRunner(cfg *RunnerConfig) (*Runner, error) {
	if err := cfg.Cfg.Validate(); err != nil {
		return nil, err
	}

	return &Runner{
		cfg:         cfg,
		diagnostics: []*Diagnostic{},
		workers:     make(chan struct{}, maxWorkers),
	}, nil
}

// recordDiagnostic records the provided per session failure.
func (r *Runner) recordDiagnostic(marketName string, date time.Time, strategyName string, err error) {
	r.diagnosticsMtx.Lock()
	r.diagnostics = append(r.diagnostics, &Diagnostic{
		Market:   marketName,
		Date:     date,
		Strategy: strategyName,
		Err:      err,
	})
	r.diagnosticsMtx.Unlock()

	r.cfg.Logger.Error().Msgf("skipping %s session on %s for %s: %v",
		marketName, date.Format(time.DateOnly), strategyName, err)
}

// Diagnostics returns the recorded per session failures.
func (r *Runner) Diagnostics() []*Diagnostic {
	r.diagnosticsMtx.Lock()
	defer r.diagnosticsMtx.Unlock()

	return slices.Clone(r.diagnostics)
}

// processSession evaluates one (market, session day, strategy) unit. Bars
// before the session open feed the volatility estimator only, bars at or
// after the cutoff are never seen.
func (r *Runner) processSession(marketName string, day time.Time, candles []shared.Candlestick, kind strategy.Kind) error {
	cfg := r.cfg.Cfg

	session, err := market.NewSession(marketName, day, cfg.SessionOpen, cfg.Cutoff())
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	anchor := session.Date
	if cfg.AnchorSessionOpen {
		anchor = session.Open
	}

	aggregated, err := aggregate.Aggregate(candles, cfg.Timeframe, anchor)
	if err != nil {
		return fmt.Errorf("aggregating candles: %w", err)
	}

	err = session.Window(aggregated)
	if err != nil {
		return err
	}

	gen, err := indicator.NewATRGenerator(marketName, cfg.Timeframe, cfg.ATRPeriod)
	if err != nil {
		return fmt.Errorf("creating atr generator: %w", err)
	}

	strat, err := strategy.New(kind, &strategy.Config{
		StopATRMultiple:          cfg.StopATRMultiple,
		TargetATRMultiple:        cfg.TargetATRMultiple,
		BreakoutRangeATRMultiple: cfg.BreakoutRangeATRMultiple,
		ReversalMoveATRMultiple:  cfg.ReversalMoveATRMultiple,
		ReversalLookbackBars:     cfg.ReversalLookbackBars,
	})
	if err != nil {
		return fmt.Errorf("creating strategy: %w", err)
	}

	tracker := position.NewTracker(&position.TrackerConfig{
		Market:      marketName,
		SessionDate: session.Date,
		Strategy:    strat.Name(),
		Size:        cfg.PositionSize,
		TieBreak:    cfg.TieBreak,
		OnTrade:     r.cfg.TradeLog.Append,
		Logger:      r.cfg.Logger,
	})

	window := make([]shared.Candlestick, 0, len(session.Candles))
	var lastWindowCandle *shared.Candlestick

	for idx := range aggregated {
		candle := &aggregated[idx]

		if _, err := gen.Update(candle); err != nil {
			return fmt.Errorf("updating atr: %w", err)
		}

		if candle.Date.Before(session.Open) {
			continue
		}
		if !candle.Date.Before(session.Cutoff) {
			break
		}

		lastWindowCandle = candle
		window = append(window, *candle)

		switch tracker.State() {
		case position.Open:
			if sig := strat.EvaluateExit(tracker.Position(), candle, gen); sig != nil {
				if _, err := tracker.HandleExitSignal(sig); err != nil {
					return fmt.Errorf("handling exit signal: %w", err)
				}
			}
			if _, err := tracker.Update(candle); err != nil {
				return fmt.Errorf("updating tracker: %w", err)
			}
		case position.Flat:
			if sig := strat.EvaluateEntry(window, gen); sig != nil {
				if err := tracker.HandleEntrySignal(sig); err != nil {
					return fmt.Errorf("handling entry signal: %w", err)
				}
			}
		default:
			// Closed is terminal for the session.
		}
	}

	if lastWindowCandle != nil {
		if _, err := tracker.CloseAtCutoff(lastWindowCandle); err != nil {
			return fmt.Errorf("closing at cutoff: %w", err)
		}
	}

	return nil
}

// logProgress reports run progress.
func (r *Runner) logProgress() {
	r.cfg.Logger.Info().Msgf("processed %d/%d sessions, skipped %d, %d trades so far",
		r.processedSessions.Load(), r.totalSessions.Load(), r.skippedSessions.Load(),
		r.cfg.TradeLog.Len())
}

// Run replays all loaded sessions through the configured strategies. Per
// session failures are recorded as diagnostics and never abort the run.
func (r *Runner) Run(ctx context.Context) error {
	data := r.cfg.HistoricData
	marketName := data.FetchMarket()
	dates := data.FetchSessionDates()
	cfg := r.cfg.Cfg

	r.totalSessions.Store(int64(len(dates) * len(cfg.Strategies)))

	loc, err := shared.NewYorkLoc()
	if err != nil {
		return err
	}

	scheduler := gocron.NewScheduler(loc)
	if _, err := scheduler.Every(progressInterval).Do(r.logProgress); err != nil {
		return fmt.Errorf("scheduling progress reports: %w", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	var wg sync.WaitGroup
	for didx := range dates {
		day := dates[didx]
		candles := data.FetchSessionCandles(day)

		for sidx := range cfg.Strategies {
			kind := cfg.Strategies[sidx]

			select {
			case <-ctx.Done():
				wg.Wait()
				return ctx.Err()
			case r.workers <- struct{}{}:
				// dispatch the session unit.
			}

			wg.Add(1)
			go func(day time.Time, candles []shared.Candlestick, kind strategy.Kind) {
				defer func() {
					<-r.workers
					wg.Done()
				}()

				err := r.processSession(marketName, day, candles, kind)
				if err != nil {
					r.skippedSessions.Add(1)
					r.recordDiagnostic(marketName, day, kind.String(), err)
					return
				}

				r.processedSessions.Add(1)
			}(day, candles, kind)
		}
	}

	wg.Wait()

	r.cfg.Logger.Info().Msgf("backtest complete: %d sessions processed, %d skipped, %d trades",
		r.processedSessions.Load(), r.skippedSessions.Load(), r.cfg.TradeLog.Len())

	return nil
}
