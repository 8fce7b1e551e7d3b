package report

import (
	"fmt"
	"math"
)

// TrendState distinguishes a real percentage from the sentinels.
type TrendState int

const (
	// NoTrend means there was nothing to compare against.
	NoTrend TrendState = iota
	Change
)

type Trend struct {
	State    TrendState
	Percent  float64 // signed, only meaningful for Change
	Positive bool
}

// CompareValues returns the percentage change from previous to current.
// A zero previous value yields NoTrend. The change is measured against
// |previous| so a move from -100 to -50 reads as +50%.
func CompareValues(current, previous float64) Trend {
	if previous == 0 {
		return Trend{State: NoTrend}
	}
	pct := (current - previous) / math.Abs(previous) * 100
	return Trend{State: Change, Percent: pct, Positive: pct >= 0}
}

func (t Trend) String() string {
	if t.State != Change {
		return "N/A"
	}
	return fmt.Sprintf("%+.1f%%", t.Percent)
}
