package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/ricketter1984/NY-Opening-Bell/backtest"
	"github.com/ricketter1984/NY-Opening-Bell/database"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
	"github.com/ricketter1984/NY-Opening-Bell/tradelog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		stdlog.Printf("loading config: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleTermination(ctx, cancel)

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	logger := log.With().Str("service", "backtest").Logger()

	runCfg, err := cfg.BacktestConfig()
	if err != nil {
		logger.Error().Msgf("deriving backtest config: %v", err)
		return
	}

	historicDataLogger := logger.With().Str("component", "historicdata").Logger()
	historicData, err := shared.NewHistoricData(&shared.HistoricDataConfig{
		FilePath: cfg.DataFilePath,
		Logger:   &historicDataLogger,
	})
	if err != nil {
		logger.Error().Msgf("creating historic data: %v", err)
		return
	}

	tradeLogLogger := logger.With().Str("component", "tradelog").Logger()
	tradeLog := tradelog.NewBuilder(&tradelog.BuilderConfig{Logger: &tradeLogLogger})

	runnerLogger := logger.With().Str("component", "runner").Logger()
	runner, err := backtest.NewRunner(&backtest.RunnerConfig{
		Cfg:          runCfg,
		HistoricData: historicData,
		TradeLog:     tradeLog,
		Logger:       &runnerLogger,
	})
	if err != nil {
		logger.Error().Msgf("creating backtest runner: %v", err)
		return
	}

	err = runner.Run(ctx)
	if err != nil {
		logger.Error().Msgf("running backtest: %v", err)
		return
	}

	trades := tradeLog.Trades()
	summary := tradelog.Summarize(trades)
	logger.Info().Msgf("run summary: %d trades, %d wins, %d losses, win rate %.2f%%, "+
		"net pnl %.2f, total r %.2f, avg r %.2f, profit factor %.2f, max drawdown %.2fR",
		summary.TotalTrades, summary.Wins, summary.Losses, summary.WinRate, summary.NetPNL,
		summary.TotalR, summary.AverageR, summary.ProfitFactor, summary.MaxDrawdownR)

	output, err := os.Create(cfg.OutputFilePath)
	if err != nil {
		logger.Error().Msgf("creating trade log output file: %v", err)
		return
	}
	defer output.Close()

	err = tradeLog.WriteCSV(output)
	if err != nil {
		logger.Error().Msgf("exporting trade log: %v", err)
		return
	}

	logger.Info().Msgf("trade log exported to %s", cfg.OutputFilePath)

	if cfg.DBEndpoint != "" {
		dbLogger := logger.With().Str("component", "database").Logger()
		db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DBEndpoint,
			User:     cfg.DBUser,
			Pass:     cfg.DBPass,
			Logger:   &dbLogger,
		})
		if err != nil {
			logger.Error().Msgf("creating database: %v", err)
			return
		}

		err = db.PersistTrades(ctx, trades)
		if err != nil {
			logger.Error().Msgf("persisting trades: %v", err)
			return
		}

		err = db.PersistRunSummary(ctx, uuid.New().String(), historicData.FetchMarket(),
			runCfg.Timeframe, summary)
		if err != nil {
			logger.Error().Msgf("persisting run summary: %v", err)
			return
		}
	}
}
