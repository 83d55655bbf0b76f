package roster

import (
	"cmp"

	"github.com/xinkaiwang/solvercore/consecutive"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/score"
)

type employeeState struct {
	dayCounts  map[int]int
	days       *consecutive.Tracker[int, int] // distinct worked days
	fragmented int64
	longRun    int64
}

// IncrementalCalculator keeps per employee worked days in a sorted tracker and only rescores the employee whose shift changed.
type IncrementalCalculator struct {
	roster    *Roster
	employees []*employeeState
	totals    totals
}

func NewIncrementalCalculator() *IncrementalCalculator {
	return &IncrementalCalculator{}
}

func (c *IncrementalCalculator) ResetWorkingSolution(r *Roster) {
	c.roster = r
	c.totals = totals{}
	c.employees = make([]*employeeState, len(r.Employees))
	for i := range c.employees {
		c.employees[i] = &employeeState{
			dayCounts: map[int]int{},
			days:      consecutive.NewTracker(workedDays, cmp.Compare[int]),
		}
	}
	for _, s := range r.Shifts {
		c.insert(s)
	}
}

func (c *IncrementalCalculator) BeforeVariableChanged(entity any, variableName string) {
	c.retract(mustShift(entity, variableName))
}

func (c *IncrementalCalculator) AfterVariableChanged(entity any, variableName string) {
	c.insert(mustShift(entity, variableName))
}

func (c *IncrementalCalculator) CalculateScore() score.Score {
	return c.totals.score()
}

func (c *IncrementalCalculator) ConstraintScores() map[string]score.Score {
	return c.totals.constraintScores()
}

func mustShift(entity any, variableName string) *Shift {
	shift, ok := entity.(*Shift)
	if !ok || variableName != "employee" {
		panic(kerror.Create("UnknownVariable", "roster only knows Shift.employee").With("variableName", variableName).WithErrorCode(kerror.EC_INVALID_PARAMETER))
	}
	return shift
}

func (c *IncrementalCalculator) insert(s *Shift) {
	if s.Employee == Unassigned {
		return
	}
	state := c.employees[s.Employee]
	if c.roster.Employees[s.Employee].UnavailableDay[s.Day] {
		c.totals.unavailable--
	}
	state.dayCounts[s.Day]++
	if state.dayCounts[s.Day] > 1 {
		c.totals.doubleBooking--
		return
	}
	state.days.Add(s.Day)
	c.rescore(state)
}

func (c *IncrementalCalculator) retract(s *Shift) {
	if s.Employee == Unassigned {
		return
	}
	state := c.employees[s.Employee]
	if c.roster.Employees[s.Employee].UnavailableDay[s.Day] {
		c.totals.unavailable++
	}
	state.dayCounts[s.Day]--
	if state.dayCounts[s.Day] > 0 {
		c.totals.doubleBooking++
		return
	}
	delete(state.dayCounts, s.Day)
	state.days.Remove(s.Day)
	c.rescore(state)
}

func (c *IncrementalCalculator) rescore(state *employeeState) {
	c.totals.fragmented -= state.fragmented
	c.totals.longRun -= state.longRun
	state.fragmented, state.longRun = scheduleSoftScores(state.days.Analyze(), c.roster.MaxConsecutiveDays)
	c.totals.fragmented += state.fragmented
	c.totals.longRun += state.longRun
}

// CorruptingCalculator keeps the unavailable-day penalty after a shift leaves an unavailable employee.
// Only useful to exercise score corruption detection.
type CorruptingCalculator struct {
	*IncrementalCalculator
}

func NewCorruptingCalculator() *CorruptingCalculator {
	return &CorruptingCalculator{IncrementalCalculator: NewIncrementalCalculator()}
}

func (c *CorruptingCalculator) BeforeVariableChanged(entity any, variableName string) {
	s := mustShift(entity, variableName)
	if s.Employee != Unassigned && c.roster.Employees[s.Employee].UnavailableDay[s.Day] {
		c.totals.unavailable--
	}
	c.IncrementalCalculator.BeforeVariableChanged(entity, variableName)
}
