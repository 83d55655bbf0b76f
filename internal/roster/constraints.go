package roster

import (
	"github.com/xinkaiwang/solvercore/consecutive"
	"github.com/xinkaiwang/solvercore/score"
)

const (
	ConstraintDoubleBooking = "doubleBooking"
	ConstraintUnavailable   = "unavailableDay"
	ConstraintFragmented    = "fragmentedSchedule"
	ConstraintLongRun       = "longRun"
)

var workedDays = consecutive.NewIntAnalyzer(1)

// scheduleSoftScores scores one employee's distinct worked days: -1 per break, and -1 per day beyond maxRun in a row.
func scheduleSoftScores(result *consecutive.Result[int, int], maxRun int) (fragmented int64, longRun int64) {
	fragmented = -int64(result.BreakCount())
	for _, seq := range result.Sequences() {
		if seq.Count() > maxRun {
			longRun -= int64(seq.Count() - maxRun)
		}
	}
	return
}

type totals struct {
	doubleBooking int64
	unavailable   int64
	fragmented    int64
	longRun       int64
}

func (t totals) score() score.Score {
	return score.HardSoft.Of(t.doubleBooking+t.unavailable, t.fragmented+t.longRun)
}

func (t totals) constraintScores() map[string]score.Score {
	return map[string]score.Score{
		ConstraintDoubleBooking: score.HardSoft.Of(t.doubleBooking, 0),
		ConstraintUnavailable:   score.HardSoft.Of(t.unavailable, 0),
		ConstraintFragmented:    score.HardSoft.Of(0, t.fragmented),
		ConstraintLongRun:       score.HardSoft.Of(0, t.longRun),
	}
}
