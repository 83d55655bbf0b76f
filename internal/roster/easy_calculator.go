package roster

import (
	"sort"

	"github.com/xinkaiwang/solvercore/score"
)

// EasyCalculator rescans the whole roster.
type EasyCalculator struct{}

func (c EasyCalculator) CalculateScore(r *Roster) score.Score {
	return c.calculate(r).score()
}

func (c EasyCalculator) ConstraintScoresOf(r *Roster) map[string]score.Score {
	return c.calculate(r).constraintScores()
}

func (c EasyCalculator) calculate(r *Roster) totals {
	var t totals
	dayCounts := make([]map[int]int, len(r.Employees))
	for i := range dayCounts {
		dayCounts[i] = map[int]int{}
	}
	for _, s := range r.Shifts {
		if s.Employee == Unassigned {
			continue
		}
		dayCounts[s.Employee][s.Day]++
		if r.Employees[s.Employee].UnavailableDay[s.Day] {
			t.unavailable--
		}
	}
	for _, counts := range dayCounts {
		days := make([]int, 0, len(counts))
		for day, count := range counts {
			days = append(days, day)
			t.doubleBooking -= int64(count - 1)
		}
		sort.Ints(days)
		fragmented, longRun := scheduleSoftScores(workedDays.Analyze(days), r.MaxConsecutiveDays)
		t.fragmented += fragmented
		t.longRun += longRun
	}
	return t
}
