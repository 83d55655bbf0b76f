package localsearch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/klogging"
	"github.com/xinkaiwang/solvercore/score"
	"github.com/xinkaiwang/solvercore/scoredirector"
	"github.com/xinkaiwang/solvercore/termination"
)

// line: every value wants to be equal to target. Soft score is minus the total distance.
type line struct {
	values []int
	target int
}

func lineScore(l *line) score.Score {
	var distance int64
	for _, v := range l.values {
		d := v - l.target
		if d < 0 {
			d = -d
		}
		distance += int64(d)
	}
	return score.Simple.Of(-distance)
}

type stepMove struct {
	index int
	delta int
}

func (m *stepMove) Do(director *scoredirector.Director[*line]) {
	director.BeforeVariableChanged(m.index, "value")
	director.WorkingSolution().values[m.index] += m.delta
	director.AfterVariableChanged(m.index, "value")
}

func (m *stepMove) Undo(director *scoredirector.Director[*line]) {
	director.BeforeVariableChanged(m.index, "value")
	director.WorkingSolution().values[m.index] -= m.delta
	director.AfterVariableChanged(m.index, "value")
}

func (m *stepMove) Describe() string {
	return fmt.Sprintf("values[%d]%+d", m.index, m.delta)
}

func randomStep(ctx context.Context, l *line, rnd *kcommon.SafeRand) Move[*line] {
	delta := 1
	if rnd.Intn(2) == 0 {
		delta = -1
	}
	return &stepMove{index: rnd.Intn(len(l.values)), delta: delta}
}

func newLinePhase(t *testing.T, l *line, term termination.Termination, selector MoveSelector[*line]) *Phase[*line] {
	director := scoredirector.NewEasyFactory[*line](score.Simple, scoredirector.EasyCalculatorFunc[*line](lineScore)).BuildScoreDirector(false, false)
	director.SetWorkingSolution(context.Background(), l)
	return NewPhase(director, term, selector, kcommon.NewSafeRand(1), 4)
}

func TestPhase_StepCountTermination(t *testing.T) {
	l := &line{values: []int{5, -5, 8}, target: 0}
	phase := newLinePhase(t, l, termination.NewStepCount(30), MoveSelectorFunc[*line](randomStep))

	result, err := phase.Solve(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 30, result.StepCount)
	assert.Equal(t, ER_TERMINATED, result.EndReason)
	assert.Equal(t, []string{"StepCount(30)"}, result.TerminatedBy)
	assert.True(t, result.BestScore.IsBetterThan(score.Simple.Of(-18)), result.BestScore.String())
	assert.True(t, lineScore(l).Equal(result.BestScore))
	assert.Equal(t, int64(1+30*4), result.ScoreCalculationCount)
}

func TestPhase_BestScoreTermination(t *testing.T) {
	l := &line{values: []int{3, -2}, target: 1}
	term, err := termination.NewComposite(config.CS_OR, termination.NewBestScore(score.Simple.Of(0)), termination.NewStepCount(10000))
	require.Nil(t, err)
	phase := newLinePhase(t, l, term, MoveSelectorFunc[*line](randomStep))

	result, err := phase.Solve(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "0", result.BestScore.String())
	assert.Equal(t, []int{1, 1}, l.values)
	assert.Equal(t, []string{"BestScore(0)"}, result.TerminatedBy)
}

func TestPhase_UnimprovedStepCount(t *testing.T) {
	l := &line{values: []int{0, 0}, target: 0}
	phase := newLinePhase(t, l, termination.NewUnimprovedStepCount(5), MoveSelectorFunc[*line](randomStep))
	result, err := phase.Solve(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 5, result.StepCount)
	assert.Equal(t, []int{0, 0}, l.values)
}

func TestPhase_TimeSpentWithMockClock(t *testing.T) {
	clock := kcommon.NewMockTimeProvider().SetTimeMs(1000)
	kcommon.RunWithTimeProvider(clock, func() {
		l := &line{values: []int{50}, target: 0}
		ticking := MoveSelectorFunc[*line](func(ctx context.Context, l *line, rnd *kcommon.SafeRand) Move[*line] {
			clock.AddTimeMs(5)
			return randomStep(ctx, l, rnd)
		})
		phase := newLinePhase(t, l, termination.NewTimeSpent(100), ticking)
		result, err := phase.Solve(context.Background())
		require.Nil(t, err)
		// 4 moves per step, 5ms per move
		assert.Equal(t, 5, result.StepCount)
		assert.Equal(t, int64(100), result.TimeSpentMs)
	})
}

func TestPhase_NoMove(t *testing.T) {
	l := &line{values: []int{1}, target: 0}
	none := MoveSelectorFunc[*line](func(ctx context.Context, l *line, rnd *kcommon.SafeRand) Move[*line] { return nil })
	phase := newLinePhase(t, l, termination.NewStepCount(10), none)
	result, err := phase.Solve(context.Background())
	require.Nil(t, err)
	assert.Equal(t, ER_NO_MOVE, result.EndReason)
	assert.Equal(t, 0, result.StepCount)
}

func TestPhase_MissingTermination(t *testing.T) {
	phase := newLinePhase(t, &line{values: []int{1}}, nil, MoveSelectorFunc[*line](randomStep))
	_, err := phase.Solve(context.Background())
	require.NotNil(t, err)
	assert.True(t, kerror.IsErrorCode(err, kerror.EC_CONFIG_ERROR))
}

func TestPhase_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	phase := newLinePhase(t, &line{values: []int{1}}, termination.NewStepCount(10), MoveSelectorFunc[*line](randomStep))
	result, err := phase.Solve(ctx)
	assert.Equal(t, context.Canceled, err)
	require.NotNil(t, result)
	assert.Equal(t, ER_CANCELED, result.EndReason)
}

func TestPhase_CalculationFailureAborts(t *testing.T) {
	calls := 0
	failing := scoredirector.EasyCalculatorFunc[*line](func(l *line) score.Score {
		calls++
		if calls > 3 {
			panic("calculator bug")
		}
		return lineScore(l)
	})
	director := scoredirector.NewEasyFactory[*line](score.Simple, failing).BuildScoreDirector(false, false)
	director.SetWorkingSolution(context.Background(), &line{values: []int{9}})
	phase := NewPhase(director, termination.NewStepCount(10), MoveSelectorFunc[*line](randomStep), kcommon.NewSafeRand(1), 4)

	_, err := phase.Solve(context.Background())
	require.NotNil(t, err)
	assert.True(t, kerror.IsErrorCode(err, kerror.EC_CALCULATION_FAILURE))
}

func TestPhase_LogsRunId(t *testing.T) {
	capture := klogging.NewCapturingLogger(klogging.InfoLevel)
	klogging.RunWithLogger(capture, func() {
		ctx := klogging.EmbedRunId(context.Background(), "run-7")
		phase := newLinePhase(t, &line{values: []int{2}}, termination.NewStepCount(3), MoveSelectorFunc[*line](randomStep))
		result, err := phase.Solve(ctx)
		require.Nil(t, err)
		assert.Equal(t, "run-7", result.RunId)

		ended := capture.FindByType("PhaseEnded")
		require.Equal(t, 1, len(ended))
		runId, _ := ended[0].GetDetail("runId")
		assert.Equal(t, "run-7", runId)
		stepCount, _ := ended[0].GetDetail("stepCount")
		assert.Equal(t, 3, stepCount)
	})
}
