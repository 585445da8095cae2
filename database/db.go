package database

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
	"github.com/ricketter1984/NY-Opening-Bell/tradelog"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createTradeTableSQL = "CREATE TABLE IF NOT EXISTS trade (id TEXT PRIMARY KEY, market TEXT, sessiondate TEXT, strategy TEXT, timeframe TEXT, direction TEXT, entryprice REAL, entrytime INTEGER, exitprice REAL, exittime INTEGER, exitreason TEXT, size REAL, pnl REAL, rmultiple REAL, barsheld INTEGER)"
	createRunTableSQL   = "CREATE TABLE IF NOT EXISTS run (id TEXT PRIMARY KEY, market TEXT, timeframe TEXT, totaltrades INTEGER, wins INTEGER, losses INTEGER, winrate REAL, netpnl REAL, totalr REAL, averager REAL, profitfactor REAL, maxdrawdownr REAL, createdon INTEGER)"
	persistTradeSQL     = "INSERT INTO trade(id, market, sessiondate, strategy, timeframe, direction, entryprice, entrytime, exitprice, exittime, exitreason, size, pnl, rmultiple, barsheld) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"
	persistRunSQL       = "INSERT INTO run(id, market, timeframe, totaltrades, wins, losses, winrate, netpnl, totalr, averager, profitfactor, maxdrawdownr, createdon) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)"
)

// TradeStorer defines the requirements for storing backtest results.
type TradeStorer interface {
	// PersistTrades stores the provided closed trades to the database.
	PersistTrades(ctx context.Context, trades []*shared.Trade) error
	// PersistRunSummary stores the provided run summary to the database.
	PersistRunSummary(ctx context.Context, id string, market string, timeframe shared.Timeframe, summary *tradelog.Summary) error
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the TradeStorer interface.
var _ TradeStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	client.SetBasicAuth(cfg.User, cfg.Pass)

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createTradeTableSQL},
		{SQL: createRunTableSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	return nil
}

// PersistTrades stores the provided closed trades to the database.
func (db *Database) PersistTrades(ctx context.Context, trades []*shared.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	stmts := make(rqlitehttp.SQLStatements, 0, len(trades))
	for idx := range trades {
		trade := trades[idx]

		switch trade.ExitReason {
		case shared.StopHit, shared.TargetHit, shared.TimeExit:
			// do nothing.
		default:
			db.cfg.Logger.Error().Msgf("unexpected exit reason for trade: %s", spew.Sdump(trade))
		}

		stmts = append(stmts, &rqlitehttp.SQLStatement{
			SQL: persistTradeSQL,
			PositionalParams: []any{trade.ID, trade.Market, trade.SessionDate.Format(time.DateOnly),
				trade.Strategy, trade.Timeframe.String(), trade.Direction.String(), trade.EntryPrice,
				trade.EntryTime.Unix(), trade.ExitPrice, trade.ExitTime.Unix(),
				trade.ExitReason.String(), trade.Size, trade.PNL, trade.RMultiple, trade.BarsHeld},
		})
	}

	resp, err := db.client.Execute(ctx, stmts, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	has, idx, errStr := resp.HasError()
	if has {
		return fmt.Errorf("persisting trades: %d -> %s", idx, errStr)
	}

	return nil
}

// PersistRunSummary stores the provided run summary to the database.
func (db *Database) PersistRunSummary(ctx context.Context, id string, market string, timeframe shared.Timeframe, summary *tradelog.Summary) error {
	now, _, err := shared.NewYorkTime()
	if err != nil {
		return err
	}

	resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: persistRunSQL,
			PositionalParams: []any{id, market, timeframe.String(), summary.TotalTrades,
				summary.Wins, summary.Losses, summary.WinRate, summary.NetPNL, summary.TotalR,
				summary.AverageR, summary.ProfitFactor, summary.MaxDrawdownR, now.Unix()},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	has, idx, errStr := resp.HasError()
	if has {
		return fmt.Errorf("persisting run summary %s: %d -> %s", id, idx, errStr)
	}

	return nil
}
