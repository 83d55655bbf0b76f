package scoredirector

import (
	"github.com/xinkaiwang/solvercore/score"
)

// EasyCalculator recalculates the whole score from scratch. It is the reference every other strategy is checked against.
type EasyCalculator[S any] interface {
	CalculateScore(solution S) score.Score
}

// EasyCalculatorFunc adapts a plain function.
type EasyCalculatorFunc[S any] func(solution S) score.Score

func (fn EasyCalculatorFunc[S]) CalculateScore(solution S) score.Score {
	return fn(solution)
}

// IncrementalCalculator tracks the working solution through change notifications and only recomputes deltas.
type IncrementalCalculator[S any] interface {
	ResetWorkingSolution(solution S)
	BeforeVariableChanged(entity any, variableName string)
	AfterVariableChanged(entity any, variableName string)
	CalculateScore() score.Score
}

// ConstraintMatchAware is optionally implemented by incremental calculators.
// Constraint totals name the culprit when a corruption is detected.
type ConstraintMatchAware interface {
	ConstraintScores() map[string]score.Score
}

// EasyConstraintMatchAware is the full recalculation counterpart of ConstraintMatchAware.
type EasyConstraintMatchAware[S any] interface {
	ConstraintScoresOf(solution S) map[string]score.Score
}

// UninitializedCounter is optionally implemented by the working solution.
type UninitializedCounter interface {
	CountUninitialized() int
}
