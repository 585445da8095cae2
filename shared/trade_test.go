package shared

import (
	"testing"
)

func TestPNLPoints(t *testing.T) {
	tests := []struct {
		name       string
		direction  Direction
		entryPrice float64
		exitPrice  float64
		want       float64
	}{
		{
			name:       "long gain",
			direction:  Long,
			entryPrice: 100,
			exitPrice:  110,
			want:       10,
		},
		{
			name:       "long loss",
			direction:  Long,
			entryPrice: 100,
			exitPrice:  95,
			want:       -5,
		},
		{
			name:       "short gain",
			direction:  Short,
			entryPrice: 100,
			exitPrice:  90,
			want:       10,
		},
		{
			name:       "short loss",
			direction:  Short,
			entryPrice: 100,
			exitPrice:  104,
			want:       -4,
		},
	}

	for _, test := range tests {
		pnl := PNLPoints(test.direction, test.entryPrice, test.exitPrice)
		if pnl != test.want {
			t.Errorf("%s: expected pnl %v, got %v", test.name, test.want, pnl)
		}
	}
}

func TestRMultiple(t *testing.T) {
	tests := []struct {
		name       string
		direction  Direction
		entryPrice float64
		exitPrice  float64
		stopLoss   float64
		want       float64
	}{
		{
			name:       "long stopped out for -1r",
			direction:  Long,
			entryPrice: 100,
			exitPrice:  96,
			stopLoss:   96,
			want:       -1,
		},
		{
			name:       "long target for 1.5r",
			direction:  Long,
			entryPrice: 100,
			exitPrice:  106,
			stopLoss:   96,
			want:       1.5,
		},
		{
			name:       "short target for 2r",
			direction:  Short,
			entryPrice: 100,
			exitPrice:  92,
			stopLoss:   104,
			want:       2,
		},
		{
			name:       "zero risk yields zero",
			direction:  Long,
			entryPrice: 100,
			exitPrice:  110,
			stopLoss:   100,
			want:       0,
		},
	}

	for _, test := range tests {
		r := RMultiple(test.direction, test.entryPrice, test.exitPrice, test.stopLoss)
		if r != test.want {
			t.Errorf("%s: expected r multiple %v, got %v", test.name, test.want, r)
		}
	}
}
