package roster

import (
	"context"
	"fmt"

	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/localsearch"
	"github.com/xinkaiwang/solvercore/scoredirector"
)

const employeeVariable = "employee"

func assign(director *scoredirector.Director[*Roster], s *Shift, employee int) {
	director.BeforeVariableChanged(s, employeeVariable)
	s.Employee = employee
	director.AfterVariableChanged(s, employeeVariable)
}

// ChangeMove assigns one shift to another employee (or unassigns it). Describe is meaningful once Do ran.
type ChangeMove struct {
	Shift *Shift
	To    int
	from  int
}

func (m *ChangeMove) Do(director *scoredirector.Director[*Roster]) {
	m.from = m.Shift.Employee
	assign(director, m.Shift, m.To)
}

func (m *ChangeMove) Undo(director *scoredirector.Director[*Roster]) {
	assign(director, m.Shift, m.from)
}

func (m *ChangeMove) Describe() string {
	return fmt.Sprintf("%v %d->%d", m.Shift, m.from, m.To)
}

// SwapMove exchanges the employees of two shifts.
type SwapMove struct {
	Left  *Shift
	Right *Shift
}

func (m *SwapMove) Do(director *scoredirector.Director[*Roster]) {
	left, right := m.Left.Employee, m.Right.Employee
	assign(director, m.Left, right)
	assign(director, m.Right, left)
}

func (m *SwapMove) Undo(director *scoredirector.Director[*Roster]) {
	m.Do(director)
}

func (m *SwapMove) Describe() string {
	return fmt.Sprintf("swap %v<->%v", m.Left, m.Right)
}

// MoveSelector: mostly change moves, one in four is a swap of two assigned shifts.
type MoveSelector struct{}

func (MoveSelector) SelectMove(ctx context.Context, r *Roster, rnd *kcommon.SafeRand) localsearch.Move[*Roster] {
	if len(r.Shifts) == 0 || len(r.Employees) == 0 {
		return nil
	}
	if len(r.Shifts) > 1 && rnd.Intn(4) == 0 {
		left := r.Shifts[rnd.Intn(len(r.Shifts))]
		right := r.Shifts[rnd.Intn(len(r.Shifts))]
		if left != right && left.Employee != right.Employee && left.Employee != Unassigned && right.Employee != Unassigned {
			return &SwapMove{Left: left, Right: right}
		}
	}
	shift := r.Shifts[rnd.Intn(len(r.Shifts))]
	to := rnd.Intn(len(r.Employees))
	return &ChangeMove{Shift: shift, To: to}
}
