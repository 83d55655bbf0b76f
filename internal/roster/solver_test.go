package roster

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/klogging"
	"github.com/xinkaiwang/solvercore/localsearch"
)

func TestSolve_MultiStart(t *testing.T) {
	cfg := config.NewSolverConfig()
	cfg.EnvironmentMode = config.EM_FULL_ASSERT
	cfg.Termination = config.NewTerminationConfig().WithStepCountLimit(400)
	factory := NewScoreDirectorFactory()
	problem := smallRoster()

	klogging.RunWithLogger(klogging.NewNullLogger(), func() {
		phases := make([]*localsearch.Phase[*Roster], 2)
		results, best, err := localsearch.RunMultiStart(context.Background(), 2, func(ctx context.Context, index int) (*localsearch.Phase[*Roster], error) {
			phase, err := BuildPhase(ctx, cfg, factory, problem, index)
			phases[index] = phase
			return phase, err
		})
		require.Nil(t, err)
		require.Equal(t, 2, len(results))
		for i, result := range results {
			assert.Equal(t, 400, result.StepCount)
			assert.True(t, result.BestScore.IsFeasible(), result.BestScore.String())
			solution := phases[i].WorkingSolution()
			assert.Equal(t, 0, solution.CountUninitialized())
			assert.True(t, EasyCalculator{}.CalculateScore(solution).Equal(result.BestScore))
		}
		assert.False(t, results[0].BestScore.IsBetterThan(best.BestScore))
		// the problem itself is never touched, every start works on a clone
		assert.Equal(t, 7, problem.CountUninitialized())
	})
}

func TestBuildPhase_BadTermination(t *testing.T) {
	cfg := config.NewSolverConfig()
	cfg.Termination = config.NewTerminationConfig().WithBestScoreLimit("oops")
	_, err := BuildPhase(context.Background(), cfg, NewScoreDirectorFactory(), smallRoster(), 0)
	require.NotNil(t, err)
}

func TestRoster_Table(t *testing.T) {
	r := smallRoster()
	r.Employees[0].Name = "ann"
	r.Employees[1].Name = "bob"
	assignAll(r, 0, 1, Unassigned, 0, 0, 1, 1)
	r.Shifts = append(r.Shifts[:1], append([]*Shift{{Day: 0, Index: 1, Employee: 1}}, r.Shifts[1:]...)...)
	lines := strings.Split(strings.TrimSuffix(r.Table(), "\n"), "\n")
	require.Equal(t, 7, len(lines))
	assert.Equal(t, "day 0: ann bob", lines[0])
	assert.Equal(t, "day 2: -", lines[2])
	assert.Equal(t, "day 6: bob", lines[6])
}
