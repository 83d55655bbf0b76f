package scoredirector

import (
	"github.com/xinkaiwang/solvercore/score"
)

const unassigned = -1

// testSolution: each slot holds a value, or unassigned.
// Constraints: "tooBig" (hard, -1 per value above 10) and "sum" (soft, minus the sum of values).
type testSolution struct {
	values []int
}

func newTestSolution(values ...int) *testSolution {
	return &testSolution{values: values}
}

func (s *testSolution) CountUninitialized() int {
	count := 0
	for _, v := range s.values {
		if v == unassigned {
			count++
		}
	}
	return count
}

func valueScores(v int) (hard int64, soft int64) {
	if v == unassigned {
		return 0, 0
	}
	if v > 10 {
		hard = -1
	}
	return hard, -int64(v)
}

type testEasyCalculator struct {
	panicWith interface{}
}

func (c *testEasyCalculator) CalculateScore(s *testSolution) score.Score {
	if c.panicWith != nil {
		panic(c.panicWith)
	}
	var hard, soft int64
	for _, v := range s.values {
		h, so := valueScores(v)
		hard += h
		soft += so
	}
	return score.HardSoft.Of(hard, soft)
}

func (c *testEasyCalculator) ConstraintScoresOf(s *testSolution) map[string]score.Score {
	full := c.CalculateScore(s)
	return map[string]score.Score{
		"tooBig": score.HardSoft.Of(full.HardScore(), 0),
		"sum":    score.HardSoft.Of(0, full.SoftScore()),
	}
}

// testIncrementalCalculator keeps running totals. With corrupt set it forgets to add back the "sum" of changed values.
type testIncrementalCalculator struct {
	corrupt  bool
	solution *testSolution
	hard     int64
	soft     int64
	resets   int
}

func (c *testIncrementalCalculator) ResetWorkingSolution(s *testSolution) {
	c.resets++
	c.solution = s
	c.hard, c.soft = 0, 0
	for _, v := range s.values {
		h, so := valueScores(v)
		c.hard += h
		c.soft += so
	}
}

func (c *testIncrementalCalculator) BeforeVariableChanged(entity any, variableName string) {
	h, so := valueScores(c.solution.values[entity.(int)])
	c.hard -= h
	c.soft -= so
}

func (c *testIncrementalCalculator) AfterVariableChanged(entity any, variableName string) {
	h, so := valueScores(c.solution.values[entity.(int)])
	c.hard += h
	if !c.corrupt {
		c.soft += so
	}
}

func (c *testIncrementalCalculator) CalculateScore() score.Score {
	return score.HardSoft.Of(c.hard, c.soft)
}

func (c *testIncrementalCalculator) ConstraintScores() map[string]score.Score {
	return map[string]score.Score{
		"tooBig": score.HardSoft.Of(c.hard, 0),
		"sum":    score.HardSoft.Of(0, c.soft),
	}
}

func newTestFactory(corrupt bool) *Factory[*testSolution] {
	return NewIncrementalFactory[*testSolution](score.HardSoft, &testEasyCalculator{}, func() IncrementalCalculator[*testSolution] {
		return &testIncrementalCalculator{corrupt: corrupt}
	})
}

func changeValue(d *Director[*testSolution], idx int, value int) {
	d.BeforeVariableChanged(idx, "value")
	d.WorkingSolution().values[idx] = value
	d.AfterVariableChanged(idx, "value")
	d.SetLastCompletedAction("slot" + string(rune('0'+idx)) + "=" + string(rune('0'+value)))
}
