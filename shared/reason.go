package shared

// Reason represents an entry reason.
type Reason int

const (
	MomentumBreakout Reason = iota
	SweepReversal
)

// String stringifies the provided reason.
func (r Reason) String() string {
	switch r {
	case MomentumBreakout:
		return "momentum breakout"
	case SweepReversal:
		return "sweep reversal"
	default:
		return "unknown"
	}
}

// ExitReason represents the cause of a position exit.
type ExitReason int

const (
	StopHit ExitReason = iota
	TargetHit
	TimeExit
)

// String stringifies the provided exit reason.
func (r ExitReason) String() string {
	switch r {
	case StopHit:
		return "stop hit"
	case TargetHit:
		return "target hit"
	case TimeExit:
		return "time exit"
	default:
		return "unknown"
	}
}

// Direction represents market direction.
type Direction int

const (
	Long Direction = iota
	Short
)

// String stringifies the provided direction.
func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "unknown"
	}
}
