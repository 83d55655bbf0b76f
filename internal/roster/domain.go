package roster

import (
	"fmt"
	"strings"

	"github.com/xinkaiwang/solvercore/kcommon"
)

const Unassigned = -1

type Employee struct {
	Name           string
	UnavailableDay map[int]bool
}

// Shift is the planning entity, Employee is its only variable.
type Shift struct {
	Day      int
	Index    int // position within the day
	Employee int // index into Roster.Employees, or Unassigned
}

func (s *Shift) String() string {
	return fmt.Sprintf("shift(day=%d,#%d)", s.Day, s.Index)
}

type Roster struct {
	Employees          []*Employee
	DayCount           int
	Shifts             []*Shift
	MaxConsecutiveDays int
}

// CountUninitialized: unassigned shifts.
func (r *Roster) CountUninitialized() int {
	count := 0
	for _, s := range r.Shifts {
		if s.Employee == Unassigned {
			count++
		}
	}
	return count
}

func (r *Roster) Clone() *Roster {
	clone := &Roster{
		Employees:          r.Employees,
		DayCount:           r.DayCount,
		Shifts:             make([]*Shift, len(r.Shifts)),
		MaxConsecutiveDays: r.MaxConsecutiveDays,
	}
	for i, s := range r.Shifts {
		copied := *s
		clone.Shifts[i] = &copied
	}
	return clone
}

// NewRandomRoster: every shift starts unassigned, each employee is unavailable on about one day in seven.
func NewRandomRoster(rnd *kcommon.SafeRand, employeeCount, dayCount, shiftsPerDay int) *Roster {
	r := &Roster{
		DayCount:           dayCount,
		MaxConsecutiveDays: 5,
	}
	for i := 0; i < employeeCount; i++ {
		e := &Employee{Name: fmt.Sprintf("emp%02d", i), UnavailableDay: map[int]bool{}}
		for day := 0; day < dayCount; day++ {
			if rnd.Intn(7) == 0 {
				e.UnavailableDay[day] = true
			}
		}
		r.Employees = append(r.Employees, e)
	}
	for day := 0; day < dayCount; day++ {
		for idx := 0; idx < shiftsPerDay; idx++ {
			r.Shifts = append(r.Shifts, &Shift{Day: day, Index: idx, Employee: Unassigned})
		}
	}
	return r
}

// Table renders one line per day: "day 0: alice bob -".
func (r *Roster) Table() string {
	var b strings.Builder
	day := -1
	for _, s := range r.Shifts {
		if s.Day != day {
			if day >= 0 {
				b.WriteString("\n")
			}
			day = s.Day
			fmt.Fprintf(&b, "day %d:", day)
		}
		name := "-"
		if s.Employee != Unassigned {
			name = r.Employees[s.Employee].Name
		}
		b.WriteString(" " + name)
	}
	if day >= 0 {
		b.WriteString("\n")
	}
	return b.String()
}
