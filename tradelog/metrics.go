package tradelog

import (
	"math"

	"github.com/ricketter1984/NY-Opening-Bell/shared"
)

// Summary represents the aggregate performance of a backtest run.
type Summary struct {
	TotalTrades  int
	Wins         int
	Losses       int
	WinRate      float64
	NetPNL       float64
	TotalR       float64
	AverageR     float64
	ProfitFactor float64
	MaxDrawdownR float64
}

// Summarize computes performance metrics over the provided trades. Trades are
// expected in chronological exit order, drawdown follows the log's equity
// curve in r multiples.
func Summarize(trades []*shared.Trade) *Summary {
	summary := &Summary{}
	if len(trades) == 0 {
		return summary
	}

	var grossProfitR, grossLossR float64
	var equity, peak, maxDrawdown float64

	for idx := range trades {
		trade := trades[idx]

		summary.TotalTrades++
		summary.NetPNL += trade.PNL
		summary.TotalR += trade.RMultiple

		switch {
		case trade.PNL > 0:
			summary.Wins++
			grossProfitR += trade.RMultiple
		case trade.PNL < 0:
			summary.Losses++
			grossLossR += math.Abs(trade.RMultiple)
		}

		equity += trade.RMultiple
		if equity > peak {
			peak = equity
		}
		if peak-equity > maxDrawdown {
			maxDrawdown = peak - equity
		}
	}

	summary.WinRate = float64(summary.Wins) / float64(summary.TotalTrades) * 100
	summary.AverageR = summary.TotalR / float64(summary.TotalTrades)
	summary.MaxDrawdownR = maxDrawdown

	switch {
	case grossLossR > 0:
		summary.ProfitFactor = grossProfitR / grossLossR
	case grossProfitR > 0:
		summary.ProfitFactor = math.Inf(1)
	}

	return summary
}
