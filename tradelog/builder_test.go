package tradelog

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/ricketter1984/NY-Opening-Bell/shared"
	"github.com/rs/zerolog/log"
)

// testTrade builds a closed trade exiting at the provided minute offset.
func testTrade(id string, market string, exitMinute int, pnl float64, rMultiple float64) *shared.Trade {
	loc, _ := shared.NewYorkLoc()
	day := time.Date(2024, 7, 29, 0, 0, 0, 0, loc)
	open := time.Date(2024, 7, 29, 9, 30, 0, 0, loc)

	return &shared.Trade{
		ID:          id,
		Market:      market,
		SessionDate: day,
		Strategy:    "momentum-breakout",
		Timeframe:   shared.FiveMinute,
		Direction:   shared.Long,
		EntryPrice:  100,
		EntryTime:   open,
		ExitPrice:   100 + pnl,
		ExitTime:    open.Add(time.Duration(exitMinute) * time.Minute),
		ExitReason:  shared.StopHit,
		Size:        1,
		PNL:         pnl,
		RMultiple:   rMultiple,
		BarsHeld:    exitMinute / 5,
	}
}

func TestBuilderTradesOrdering(t *testing.T) {
	builder := NewBuilder(&BuilderConfig{Logger: &log.Logger})
	assert.Equal(t, builder.Len(), 0)

	// Appends arrive in completion order, not exit time order, when sessions
	// run concurrently.
	builder.Append(testTrade("c", "MYM", 25, 2, 0.5))
	builder.Append(testTrade("a", "MYM", 10, -4, -1))
	builder.Append(testTrade("d", "MES", 25, 3, 0.75))
	builder.Append(testTrade("b", "MYM", 15, 12, 3))
	assert.Equal(t, builder.Len(), 4)

	trades := builder.Trades()
	assert.Equal(t, len(trades), 4)
	assert.Equal(t, trades[0].ID, "a")
	assert.Equal(t, trades[1].ID, "b")

	// Equal exit times order by market.
	assert.Equal(t, trades[2].ID, "d")
	assert.Equal(t, trades[3].ID, "c")

	// Ensure the returned slice is a copy.
	trades[0] = nil
	assert.Equal(t, builder.Trades()[0].ID, "a")
}

func TestBuilderTiedExitOrdering(t *testing.T) {
	// Two strategy units on the same session can tie on exit time, market and
	// entry time, eg. both entering at the close of the second candle and both
	// surviving to the cutoff. The strategy breaks the tie so the export does
	// not depend on append order.
	momentum := testTrade("m", "MYM", 25, 2, 0.5)
	reversal := testTrade("r", "MYM", 25, 2, 0.5)
	reversal.Strategy = "reversal-after-fake-move"

	forward := NewBuilder(&BuilderConfig{Logger: &log.Logger})
	forward.Append(momentum)
	forward.Append(reversal)

	backward := NewBuilder(&BuilderConfig{Logger: &log.Logger})
	backward.Append(reversal)
	backward.Append(momentum)

	forwardTrades := forward.Trades()
	backwardTrades := backward.Trades()
	assert.Equal(t, forwardTrades[0].Strategy, "momentum-breakout")
	assert.Equal(t, backwardTrades[0].Strategy, "momentum-breakout")
	assert.Equal(t, forwardTrades[1].Strategy, backwardTrades[1].Strategy)
}

func TestBuilderWriteCSV(t *testing.T) {
	builder := NewBuilder(&BuilderConfig{Logger: &log.Logger})
	builder.Append(testTrade("b", "MYM", 15, 12, 3))
	builder.Append(testTrade("a", "MYM", 10, -4, -1))

	var buf bytes.Buffer
	err := builder.WriteCSV(&buf)
	assert.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, len(records), 3)
	assert.Equal(t, records[0], csvHeader)

	// Rows follow exit time order.
	assert.Equal(t, records[1][0], "a")
	assert.Equal(t, records[1][1], "MYM")
	assert.Equal(t, records[1][2], "2024-07-29")
	assert.Equal(t, records[1][5], "long")
	assert.Equal(t, records[1][12], "-4")
	assert.Equal(t, records[2][0], "b")
	assert.Equal(t, records[2][13], "3")
}

func TestSummarize(t *testing.T) {
	trades := []*shared.Trade{
		testTrade("a", "MYM", 10, -4, -1),
		testTrade("b", "MYM", 15, 12, 3),
		testTrade("c", "MYM", 20, -4, -1),
		testTrade("d", "MYM", 25, 8, 2),
	}

	summary := Summarize(trades)
	assert.Equal(t, summary.TotalTrades, 4)
	assert.Equal(t, summary.Wins, 2)
	assert.Equal(t, summary.Losses, 2)
	assert.Equal(t, summary.WinRate, float64(50))
	assert.Equal(t, summary.NetPNL, float64(12))
	assert.Equal(t, summary.TotalR, float64(3))
	assert.Equal(t, summary.AverageR, float64(0.75))
	assert.Equal(t, summary.ProfitFactor, float64(2.5))

	// Equity in r runs -1, 2, 1, 3. The deepest slide from a peak is one r.
	assert.Equal(t, summary.MaxDrawdownR, float64(1))
}

func TestSummarizeEdgeCases(t *testing.T) {
	// Ensure an empty log summarizes to zeroes.
	summary := Summarize([]*shared.Trade{})
	assert.Equal(t, summary.TotalTrades, 0)
	assert.Equal(t, summary.WinRate, float64(0))
	assert.Equal(t, summary.ProfitFactor, float64(0))

	// Ensure a log with no losses has an unbounded profit factor.
	summary = Summarize([]*shared.Trade{testTrade("a", "MYM", 10, 12, 3)})
	assert.Equal(t, summary.Wins, 1)
	assert.True(t, summary.ProfitFactor > 1e300)
}
