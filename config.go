package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ricketter1984/NY-Opening-Bell/backtest"
	"github.com/ricketter1984/NY-Opening-Bell/position"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
	"github.com/ricketter1984/NY-Opening-Bell/strategy"
)

// Config is the configuration struct for the service.
type Config struct {
	// DataFilePath is the filepath to the historic market data.
	DataFilePath string
	// OutputFilePath is the filepath for the exported trade log.
	OutputFilePath string
	// Timeframe is the aggregated timeframe evaluated by strategies.
	Timeframe string
	// SessionOpen is the session open clock time in new york.
	SessionOpen string
	// SessionCutoffMinutes bounds the evaluation window after the open.
	SessionCutoffMinutes int
	// AnchorSessionOpen aligns aggregation intervals to the session open.
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
	TieBreak string
	// Strategies is the comma separated list of strategies to run.
	Strategies string
	// PositionSize is the size applied to accepted entries.
	PositionSize float64
	// DBEndpoint is the optional results database connection endpoint.
	DBEndpoint string
	// DBUser is the database user.
	DBUser string
	// DBPass is the database user pass.
	DBPass string
}

// envString fetches the environment value for the provided key, falling back
// to the provided default.
func envString(key string, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return def
}

// envInt fetches the environment value for the provided key as an int.
func envInt(key string, def int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}

	return def
}

// envFloat fetches the environment value for the provided key as a float.
func envFloat(key string, def float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}

	return def
}

// envBool fetches the environment value for the provided key as a bool.
func envBool(key string, def bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}

	return def
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.DataFilePath == "" {
		errs = errors.Join(errs, fmt.Errorf("backtest data filepath cannot be an empty string"))
	}
	if cfg.OutputFilePath == "" {
		errs = errors.Join(errs, fmt.Errorf("trade log output filepath cannot be an empty string"))
	}
	if cfg.Strategies == "" {
		errs = errors.Join(errs, fmt.Errorf("no strategies provided for the backtest"))
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", shared.ErrConfiguration, errs)
	}

	return nil
}

// BacktestConfig derives the backtest run configuration from the loaded config.
func (cfg *Config) BacktestConfig() (*backtest.Config, error) {
	timeframe, err := shared.ParseTimeframe(cfg.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrConfiguration, err)
	}

	tieBreak, err := position.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrConfiguration, err)
	}

	kinds := make([]strategy.Kind, 0)
	for _, name := range strings.Split(cfg.Strategies, ",") {
		kind, err := strategy.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrConfiguration, err)
		}

		kinds = append(kinds, kind)
	}

	runCfg := &backtest.Config{
		Timeframe:                timeframe,
		SessionOpen:              cfg.SessionOpen,
		SessionCutoffMinutes:     cfg.SessionCutoffMinutes,
		AnchorSessionOpen:        cfg.AnchorSessionOpen,
		ATRPeriod:                cfg.ATRPeriod,
		StopATRMultiple:          cfg.StopATRMultiple,
		TargetATRMultiple:        cfg.TargetATRMultiple,
		BreakoutRangeATRMultiple: cfg.BreakoutRangeATRMultiple,
		ReversalMoveATRMultiple:  cfg.ReversalMoveATRMultiple,
		ReversalLookbackBars:     cfg.ReversalLookbackBars,
		TieBreak:                 tieBreak,
		Strategies:               kinds,
		PositionSize:             cfg.PositionSize,
	}

	err = runCfg.Validate()
	if err != nil {
		return nil, err
	}

	return runCfg, nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	flag.StringVar(&cfg.DataFilePath, "datafilepath", envString("datafilepath", ""), "the filepath to the historic market data")
	flag.StringVar(&cfg.OutputFilePath, "outputfilepath", envString("outputfilepath", "trades.csv"), "the filepath for the exported trade log")
	flag.StringVar(&cfg.Timeframe, "timeframe", envString("timeframe", "5m"), "the aggregated timeframe (1m,2m,3m,5m,10m,15m)")
	flag.StringVar(&cfg.SessionOpen, "sessionopen", envString("sessionopen", "09:30"), "the session open clock time in new york")
	flag.IntVar(&cfg.SessionCutoffMinutes, "sessioncutoffminutes", envInt("sessioncutoffminutes", 30), "the evaluation window in minutes after the open")
	flag.BoolVar(&cfg.AnchorSessionOpen, "anchorsessionopen", envBool("anchorsessionopen", false), "align aggregation intervals to the session open instead of midnight")
	flag.IntVar(&cfg.ATRPeriod, "atrperiod", envInt("atrperiod", 14), "the average true range period")
	flag.Float64Var(&cfg.StopATRMultiple, "stopatrmultiple", envFloat("stopatrmultiple", 2), "the stop distance in atr multiples")
	flag.Float64Var(&cfg.TargetATRMultiple, "targetatrmultiple", envFloat("targetatrmultiple", 3), "the target distance in atr multiples")
	flag.Float64Var(&cfg.BreakoutRangeATRMultiple, "breakoutrangeatrmultiple", envFloat("breakoutrangeatrmultiple", 2), "the momentum entry range threshold in atr multiples")
	flag.Float64Var(&cfg.ReversalMoveATRMultiple, "reversalmoveatrmultiple", envFloat("reversalmoveatrmultiple", 2), "the fake move excursion threshold in atr multiples")
	flag.IntVar(&cfg.ReversalLookbackBars, "reversallookbackbars", envInt("reversallookbackbars", 5), "the sweep and reversal lookback in bars")
	flag.StringVar(&cfg.TieBreak, "tiebreak", envString("tiebreak", "stop_first"), "the stop/target same-candle ordering policy (stop_first, target_first)")
	flag.StringVar(&cfg.Strategies, "strategies", envString("strategies", "momentum-breakout,reversal-after-fake-move"), "the comma separated strategies to run")
	flag.Float64Var(&cfg.PositionSize, "positionsize", envFloat("positionsize", 1), "the size applied to accepted entries")
	flag.StringVar(&cfg.DBEndpoint, "dbendpoint", envString("dbendpoint", ""), "the optional results database endpoint")
	flag.StringVar(&cfg.DBUser, "dbuser", envString("dbuser", ""), "the database user")
	flag.StringVar(&cfg.DBPass, "dbpass", envString("dbpass", ""), "the database user pass")

	// Parse command-line flags.
	flag.Parse()

	return cfg.Validate()
}
