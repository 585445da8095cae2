package tradelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/ricketter1984/NY-Opening-Bell/shared"
	"github.com/rs/zerolog"
)

// BuilderConfig represents the trade log builder configuration.
type BuilderConfig struct {
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Builder accumulates closed trades across sessions and markets. It is the
// only shared sink of the backtest, appends are serialized and the export is
// stable sorted by exit time so replays produce identical logs.
type Builder struct {
	cfg       *BuilderConfig
	trades    []*shared.Trade
	tradesMtx sync.Mutex
}

// NewBuilder initializes a new trade log builder.
func NewBuilder(cfg *BuilderConfig) *Builder {
	return &Builder{
		cfg:    cfg,
		trades: []*shared.Trade{},
	}
}

// Append appends the provided closed trade to the log.
func (b *Builder) Append(trade *shared.Trade) {
	b.tradesMtx.Lock()
	b.trades = append(b.trades, trade)
	b.tradesMtx.Unlock()
}

// Len returns the number of accumulated trades.
func (b *Builder) Len() int {
	b.tradesMtx.Lock()
	defer b.tradesMtx.Unlock()

	return len(b.trades)
}

// Trades returns the accumulated trades ordered chronologically by exit time,
// breaking ties by market, entry time and strategy. Concurrent session units
// can tie on the first three, the strategy makes the order total. The
// returned slice is a copy.
func (b *Builder) Trades() []*shared.Trade {
	b.tradesMtx.Lock()
	trades := slices.Clone(b.trades)
	b.tradesMtx.Unlock()

	slices.SortStableFunc(trades, func(a, b *shared.Trade) int {
		switch {
		case a.ExitTime.Before(b.ExitTime):
			return -1
		case a.ExitTime.After(b.ExitTime):
			return 1
		}

		if cmp := compareStrings(a.Market, b.Market); cmp != 0 {
			return cmp
		}

		switch {
		case a.EntryTime.Before(b.EntryTime):
			return -1
		case a.EntryTime.After(b.EntryTime):
			return 1
		}

		return compareStrings(a.Strategy, b.Strategy)
	})

	return trades
}

// compareStrings orders strings lexicographically.
func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// csvHeader is the column layout of the exported trade log.
var csvHeader = []string{"id", "market", "session_date", "strategy", "timeframe", "direction",
	"entry_price", "entry_time", "exit_price", "exit_time", "exit_reason", "size", "pnl",
	"r_multiple", "bars_held"}

// f formats the provided float for csv export.
func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the accumulated trades to the provided writer as a flat
// delimited table with columns matching the trade entity fields.
func (b *Builder) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing trade log header: %w", err)
	}

	trades := b.Trades()
	for idx := range trades {
		trade := trades[idx]
		record := []string{
			trade.ID,
			trade.Market,
			trade.SessionDate.Format(time.DateOnly),
			trade.Strategy,
			trade.Timeframe.String(),
			trade.Direction.String(),
			f(trade.EntryPrice),
			trade.EntryTime.Format(time.RFC3339),
			f(trade.ExitPrice),
			trade.ExitTime.Format(time.RFC3339),
			trade.ExitReason.String(),
			f(trade.Size),
			f(trade.PNL),
			f(trade.RMultiple),
			strconv.Itoa(trade.BarsHeld),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing trade %s: %w", trade.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing trade log: %w", err)
	}

	b.cfg.Logger.Info().Msgf("exported %d trades", len(trades))

	return nil
}
