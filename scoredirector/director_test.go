package scoredirector

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/klogging"
	"github.com/xinkaiwang/solvercore/score"
)

func TestDirector_Easy(t *testing.T) {
	ctx := context.Background()
	factory := NewEasyFactory[*testSolution](score.HardSoft, &testEasyCalculator{})
	assert.False(t, factory.IsIncremental())
	director := factory.BuildScoreDirector(false, false)

	// step 1: score of the installed solution
	director.SetWorkingSolution(ctx, newTestSolution(1, 2, 12))
	s, err := director.CalculateScore(ctx)
	require.Nil(t, err)
	assert.Equal(t, "-1hard/-15soft", s.String())
	assert.Equal(t, int64(1), director.CalculationCount())

	// step 2: changes are picked up by full recalculation
	changeValue(director, 2, 3)
	s, err = director.CalculateScore(ctx)
	require.Nil(t, err)
	assert.Equal(t, "0hard/-6soft", s.String())
	assert.Equal(t, int64(2), director.CalculationCount())

	director.ResetCalculationCount()
	assert.Equal(t, int64(0), director.CalculationCount())
}

func TestDirector_SolutionIdentity(t *testing.T) {
	ctx := context.Background()
	director := newTestFactory(false).BuildScoreDirector(false, false)
	assert.Equal(t, "", director.SolutionId())

	director.SetWorkingSolution(ctx, newTestSolution(1))
	first := director.SolutionId()
	_, err := uuid.Parse(first)
	assert.Nil(t, err)

	director.SetWorkingSolution(ctx, newTestSolution(1))
	assert.NotEqual(t, first, director.SolutionId())
}

func TestDirector_UninitializedCount(t *testing.T) {
	ctx := context.Background()
	director := newTestFactory(false).BuildScoreDirector(true, true)
	director.SetWorkingSolution(ctx, newTestSolution(1, unassigned, unassigned))
	s, err := director.CalculateScore(ctx)
	require.Nil(t, err)
	assert.Equal(t, 2, s.UninitializedCount())
	assert.Equal(t, "-2init/0hard/-1soft", s.String())

	changeValue(director, 1, 4)
	s, err = director.CalculateScore(ctx)
	require.Nil(t, err)
	assert.Equal(t, "-1init/0hard/-5soft", s.String())
}

func TestDirector_IncrementalAgreesWithExactAssert(t *testing.T) {
	ctx := context.Background()
	director := newTestFactory(false).BuildScoreDirector(true, true)
	director.SetWorkingSolution(ctx, newTestSolution(1, 2, 3))

	for i, v := range []int{5, 11, 0, 7} {
		changeValue(director, i%3, v)
		s, err := director.CalculateScore(ctx)
		require.Nil(t, err)
		expected := (&testEasyCalculator{}).CalculateScore(director.WorkingSolution())
		assert.True(t, expected.Equal(s), s.String())
	}
	assert.Equal(t, int64(4), director.CalculationCount())
}

func TestDirector_ExactAssertDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	capture := klogging.NewCapturingLogger(klogging.DebugLevel)
	klogging.RunWithLogger(capture, func() {
		director := newTestFactory(true).BuildScoreDirector(true, true)
		director.SetWorkingSolution(ctx, newTestSolution(1, 2, 3))
		before, _ := ScoreCorruptionMetric.GetTimeSequence(ctx, "exact").Get()

		// step 1: no change yet, calculators agree
		_, err := director.CalculateScore(ctx)
		require.Nil(t, err)

		// step 2: the corrupting calculator diverges
		changeValue(director, 0, 4)
		_, err = director.CalculateScore(ctx)
		require.NotNil(t, err)
		assert.True(t, kerror.IsErrorCode(err, kerror.EC_SCORE_CORRUPTION))
		assert.True(t, kerror.EC_SCORE_CORRUPTION.IsFatal())

		ke := err.(*kerror.Kerror)
		workingScore, _ := ke.GetDetail("workingScore")
		assert.Equal(t, "0hard/-5soft", workingScore)
		fullScore, _ := ke.GetDetail("fullScore")
		assert.Equal(t, "0hard/-9soft", fullScore)
		delta, _ := ke.GetDetail("delta")
		assert.Equal(t, "0hard/-4soft", delta)
		action, _ := ke.GetDetail("completedAction")
		assert.Equal(t, "slot0=4", action)
		constraint, _ := ke.GetDetail("constraint")
		assert.Equal(t, "sum", constraint)
		assert.True(t, strings.Contains(ke.Msg, "sum working=0hard/-5soft full=0hard/-9soft"), ke.Msg)

		after, _ := ScoreCorruptionMetric.GetTimeSequence(ctx, "exact").Get()
		assert.Equal(t, before+1, after)

		entries := capture.FindByType("ScoreCorruption")
		require.Equal(t, 1, len(entries))
		assert.Equal(t, klogging.ErrorLevel, entries[0].Level)
	})
}

func TestDirector_NonExactAssertSubstitutesFullScore(t *testing.T) {
	ctx := context.Background()
	capture := klogging.NewCapturingLogger(klogging.DebugLevel)
	klogging.RunWithLogger(capture, func() {
		director := newTestFactory(true).BuildScoreDirector(true, false)
		director.SetWorkingSolution(ctx, newTestSolution(1, 2, 3))
		incremental := director.incremental.(*testIncrementalCalculator)
		assert.Equal(t, 1, incremental.resets)
		before, _ := ScoreCorruptionMetric.GetTimeSequence(ctx, "non_exact").Get()

		changeValue(director, 0, 4)
		s, err := director.CalculateScore(ctx)
		require.Nil(t, err)
		assert.Equal(t, "0hard/-9soft", s.String())
		assert.Equal(t, 2, incremental.resets)

		// after the reset the incremental calculator is back in sync
		s, err = director.CalculateScore(ctx)
		require.Nil(t, err)
		assert.Equal(t, "0hard/-9soft", s.String())

		after, _ := ScoreCorruptionMetric.GetTimeSequence(ctx, "non_exact").Get()
		assert.Equal(t, before+1, after)
		entries := capture.FindByType("ScoreCorruption")
		require.Equal(t, 1, len(entries))
		assert.Equal(t, klogging.WarnLevel, entries[0].Level)
	})
}

func TestDirector_NoAssertTrustsIncremental(t *testing.T) {
	ctx := context.Background()
	director := newTestFactory(true).BuildScoreDirector(false, false)
	director.SetWorkingSolution(ctx, newTestSolution(1, 2, 3))
	changeValue(director, 0, 4)
	s, err := director.CalculateScore(ctx)
	require.Nil(t, err)
	assert.Equal(t, "0hard/-5soft", s.String())

	// the explicit check still catches it
	err = director.AssertWorkingScoreFromScratch(ctx, s, "slot0=4")
	assert.Nil(t, err)
	exact := newTestFactory(true).BuildScoreDirector(false, true)
	exact.SetWorkingSolution(ctx, newTestSolution(1, 2, 3))
	changeValue(exact, 0, 4)
	_, err = exact.CalculateScore(ctx)
	require.NotNil(t, err)
	assert.True(t, exact.IsAssertScoreFromScratch())
	assert.True(t, kerror.IsErrorCode(err, kerror.EC_SCORE_CORRUPTION))

	err = exact.AssertWorkingScoreFromScratch(ctx, score.HardSoft.Of(0, -9), "slot0=4")
	assert.Nil(t, err)
}

func TestDirector_CalculationFailure(t *testing.T) {
	ctx := context.Background()
	easy := &testEasyCalculator{panicWith: "boom"}
	director := NewEasyFactory[*testSolution](score.HardSoft, easy).BuildScoreDirector(false, false)
	director.SetWorkingSolution(ctx, newTestSolution(1))
	before, _ := CalculationFailureMetric.GetTimeSequence(ctx, "easy").Get()

	_, err := director.CalculateScore(ctx)
	require.NotNil(t, err)
	assert.True(t, kerror.IsErrorCode(err, kerror.EC_CALCULATION_FAILURE))
	ke := err.(*kerror.Kerror)
	solutionId, ok := ke.GetDetail("solutionId")
	assert.True(t, ok)
	assert.Equal(t, director.SolutionId(), solutionId)
	cause := ke.CausedBy.(*kerror.Kerror)
	assert.Equal(t, "boom", cause.Msg)

	after, _ := CalculationFailureMetric.GetTimeSequence(ctx, "easy").Get()
	assert.Equal(t, before+1, after)
}

type wrongShapeCalculator struct{}

func (wrongShapeCalculator) CalculateScore(s *testSolution) score.Score {
	return score.Simple.Of(1)
}

func TestDirector_WrongScoreShape(t *testing.T) {
	ctx := context.Background()
	director := NewEasyFactory[*testSolution](score.HardSoft, wrongShapeCalculator{}).BuildScoreDirector(false, false)
	director.SetWorkingSolution(ctx, newTestSolution(1))
	_, err := director.CalculateScore(ctx)
	require.NotNil(t, err)
	assert.True(t, kerror.IsErrorCode(err, kerror.EC_CALCULATION_FAILURE))
}

func TestDirector_NoWorkingSolutionPanics(t *testing.T) {
	director := newTestFactory(false).BuildScoreDirector(false, false)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		ke, ok := r.(*kerror.Kerror)
		require.True(t, ok)
		assert.Equal(t, kerror.EC_ILLEGAL_STATE, ke.ErrorCode)
	}()
	director.CalculateScore(context.Background())
}

func TestFactory_BuildScoreDirectorForMode(t *testing.T) {
	factory := newTestFactory(false)
	tests := []struct {
		mode   config.EnvironmentMode
		assert bool
		exact  bool
	}{
		{mode: config.EM_FULL_ASSERT, assert: true, exact: true},
		{mode: config.EM_FAST_ASSERT, assert: true, exact: false},
		{mode: config.EM_REPRODUCIBLE, assert: false, exact: false},
		{mode: config.EM_NON_REPRODUCIBLE, assert: false, exact: false},
	}
	for _, tt := range tests {
		director := factory.BuildScoreDirectorForMode(tt.mode)
		assert.Equal(t, tt.assert, director.IsAssertScoreFromScratch(), tt.mode)
		assert.Equal(t, tt.exact, director.IsAssertExactScoreFromScratch(), tt.mode)
		assert.Same(t, score.HardSoft, director.Definition())
	}

	// each director owns its incremental calculator
	d1 := factory.BuildScoreDirector(false, false)
	d2 := factory.BuildScoreDirector(false, false)
	assert.NotSame(t, d1.incremental, d2.incremental)
}

func TestFactory_EasyCalculatorFunc(t *testing.T) {
	ctx := context.Background()
	factory := NewEasyFactory[[]int](score.Simple, EasyCalculatorFunc[[]int](func(values []int) score.Score {
		return score.Simple.Of(int64(len(values)))
	}))
	director := factory.BuildScoreDirector(true, true)
	director.SetWorkingSolution(ctx, []int{1, 2, 3})
	s, err := director.CalculateScore(ctx)
	require.Nil(t, err)
	assert.Equal(t, "3", s.String())
}
