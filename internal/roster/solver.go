package roster

import (
	"context"

	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/localsearch"
	"github.com/xinkaiwang/solvercore/score"
	"github.com/xinkaiwang/solvercore/scoredirector"
	"github.com/xinkaiwang/solvercore/termination"
)

func NewScoreDirectorFactory() *scoredirector.Factory[*Roster] {
	return scoredirector.NewIncrementalFactory[*Roster](score.HardSoft, EasyCalculator{}, func() scoredirector.IncrementalCalculator[*Roster] {
		return NewIncrementalCalculator()
	})
}

// BuildPhase prepares start number index: its own copy of problem, director, termination tree and random source.
func BuildPhase(ctx context.Context, cfg config.SolverConfig, factory *scoredirector.Factory[*Roster], problem *Roster, index int) (*localsearch.Phase[*Roster], error) {
	term, err := termination.NewFactory(cfg.Termination).BuildTermination(factory.Definition())
	if err != nil {
		return nil, err
	}
	director := factory.BuildScoreDirectorForMode(cfg.EnvironmentMode)
	director.SetWorkingSolution(ctx, problem.Clone())

	var rnd *kcommon.SafeRand
	if cfg.EnvironmentMode.IsReproducible() {
		rnd = kcommon.NewSafeRand(cfg.RandomSeed + int64(index))
	} else {
		rnd = kcommon.NewRandomSeededRand(ctx)
	}
	return localsearch.NewPhase(director, term, MoveSelector{}, rnd, cfg.MovesPerStep), nil
}
