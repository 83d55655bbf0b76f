package scoredirector

import (
	"context"

	"github.com/google/uuid"

	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/klogging"
	"github.com/xinkaiwang/solvercore/score"
)

// Director owns the working solution of one solving loop and answers "what is its score now".
// A Director is not thread safe: one loop, one director.
type Director[S any] struct {
	factory                     *Factory[S]
	assertScoreFromScratch      bool
	assertExactScoreFromScratch bool
	incremental                 IncrementalCalculator[S] // nil for easy only factories

	solution            S
	hasSolution         bool
	solutionId          string
	calculationCount    int64
	lastCompletedAction string
}

func (d *Director[S]) Definition() *score.Definition {
	return d.factory.def
}

func (d *Director[S]) IsAssertScoreFromScratch() bool {
	return d.assertScoreFromScratch
}

func (d *Director[S]) IsAssertExactScoreFromScratch() bool {
	return d.assertExactScoreFromScratch
}

// SetWorkingSolution installs a solution and gives it a fresh identity.
// Must not be called while a calculation is in flight.
func (d *Director[S]) SetWorkingSolution(ctx context.Context, solution S) {
	d.solution = solution
	d.hasSolution = true
	d.solutionId = uuid.NewString()
	d.lastCompletedAction = ""
	if d.incremental != nil {
		d.incremental.ResetWorkingSolution(solution)
	}
	klogging.Debug(ctx).With("solutionId", d.solutionId).With("incremental", d.incremental != nil).Log("WorkingSolutionSet", "")
}

func (d *Director[S]) WorkingSolution() S {
	return d.solution
}

func (d *Director[S]) SolutionId() string {
	return d.solutionId
}

func (d *Director[S]) CalculationCount() int64 {
	return d.calculationCount
}

func (d *Director[S]) ResetCalculationCount() {
	d.calculationCount = 0
}

// SetLastCompletedAction names the last change made to the working solution, reported if a corruption shows up.
func (d *Director[S]) SetLastCompletedAction(action string) {
	d.lastCompletedAction = action
}

func (d *Director[S]) BeforeVariableChanged(entity any, variableName string) {
	d.mustHaveSolution("BeforeVariableChanged")
	if d.incremental != nil {
		d.incremental.BeforeVariableChanged(entity, variableName)
	}
}

func (d *Director[S]) AfterVariableChanged(entity any, variableName string) {
	d.mustHaveSolution("AfterVariableChanged")
	if d.incremental != nil {
		d.incremental.AfterVariableChanged(entity, variableName)
	}
}

func (d *Director[S]) mustHaveSolution(op string) {
	if !d.hasSolution {
		panic(kerror.Create("NoWorkingSolution", "the working solution must be set before "+op).WithErrorCode(kerror.EC_ILLEGAL_STATE))
	}
}

// CalculateScore scores the working solution.
// A panicking calculator comes back as an EC_CALCULATION_FAILURE error. With assertScoreFromScratch,
// an incremental score which differs from the full recalculation is either an EC_SCORE_CORRUPTION error (exact)
// or replaced by the full score (non exact).
func (d *Director[S]) CalculateScore(ctx context.Context) (score.Score, error) {
	d.mustHaveSolution("CalculateScore")
	d.calculationCount++
	strategy := strategyEasy
	if d.incremental != nil {
		strategy = strategyIncremental
	}
	ScoreCalculationMetric.GetTimeSequence(ctx, strategy).Add(1)

	var s score.Score
	var err error
	if d.incremental != nil {
		s, err = d.runCalculator(ctx, strategy, d.incremental.CalculateScore)
	} else {
		s, err = d.calculateFullScore(ctx)
	}
	if err != nil {
		return score.Score{}, err
	}
	if d.assertScoreFromScratch && d.incremental != nil {
		return d.checkAgainstFullScore(ctx, s, d.lastCompletedAction)
	}
	return s, nil
}

func (d *Director[S]) calculateFullScore(ctx context.Context) (score.Score, error) {
	return d.runCalculator(ctx, strategyEasy, func() score.Score {
		return d.factory.easy.CalculateScore(d.solution)
	})
}

// runCalculator runs user code, checks the result shape and applies the solution's uninitialized count.
func (d *Director[S]) runCalculator(ctx context.Context, strategy string, calculate func() score.Score) (score.Score, error) {
	var s score.Score
	ke := kcommon.TryCatchRun(ctx, func() {
		s = calculate()
	})
	if ke != nil {
		CalculationFailureMetric.GetTimeSequence(ctx, strategy).Add(1)
		return score.Score{}, kerror.Wrap(ke, "ScoreCalculationFailed", "score calculator panicked", false).
			With("solutionId", d.solutionId).
			With("strategy", strategy).
			WithErrorCode(kerror.EC_CALCULATION_FAILURE)
	}
	if s.IsNil() || s.LevelsSize() != d.factory.def.LevelsSize() {
		CalculationFailureMetric.GetTimeSequence(ctx, strategy).Add(1)
		return score.Score{}, kerror.Create("ScoreCalculationFailed", "score calculator returned a score of the wrong shape").
			With("solutionId", d.solutionId).
			With("strategy", strategy).
			With("score", s.String()).
			With("expected", d.factory.def.String()).
			WithErrorCode(kerror.EC_CALCULATION_FAILURE)
	}
	if counter, ok := any(d.solution).(UninitializedCounter); ok {
		s = s.WithUninitializedCount(counter.CountUninitialized())
	}
	return s, nil
}

// AssertWorkingScoreFromScratch compares workingScore with a full recalculation of the working solution.
// Returns an EC_SCORE_CORRUPTION error in exact mode; otherwise a mismatch is logged, counted and the incremental calculator is reset.
func (d *Director[S]) AssertWorkingScoreFromScratch(ctx context.Context, workingScore score.Score, completedAction string) error {
	d.mustHaveSolution("AssertWorkingScoreFromScratch")
	_, err := d.checkAgainstFullScore(ctx, workingScore, completedAction)
	return err
}

func (d *Director[S]) checkAgainstFullScore(ctx context.Context, workingScore score.Score, completedAction string) (score.Score, error) {
	fullScore, err := d.calculateFullScore(ctx)
	if err != nil {
		return score.Score{}, err
	}
	if workingScore.Equal(fullScore) {
		return workingScore, nil
	}
	analysis := d.buildCorruptionAnalysis(workingScore, fullScore, completedAction)
	ScoreCorruptionMetric.GetTimeSequence(ctx, corruptionMode(d.assertExactScoreFromScratch)).Add(1)
	if d.assertExactScoreFromScratch {
		klogging.Error(ctx).
			With("solutionId", d.solutionId).
			With("workingScore", workingScore.String()).
			With("fullScore", fullScore.String()).
			With("completedAction", completedAction).
			Log("ScoreCorruption", analysis.String())
		return score.Score{}, analysis.ToError()
	}
	klogging.Warning(ctx).
		With("solutionId", d.solutionId).
		With("workingScore", workingScore.String()).
		With("fullScore", fullScore.String()).
		With("completedAction", completedAction).
		Log("ScoreCorruption", analysis.String())
	if d.incremental != nil {
		d.incremental.ResetWorkingSolution(d.solution)
	}
	return fullScore, nil
}
