package scoredirector

import (
	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/score"
)

// Factory creates directors. Every director gets its own incremental calculator instance.
type Factory[S any] struct {
	def            *score.Definition
	easy           EasyCalculator[S]
	newIncremental func() IncrementalCalculator[S]
}

// NewEasyFactory: directors only do full recalculations.
func NewEasyFactory[S any](def *score.Definition, easy EasyCalculator[S]) *Factory[S] {
	return NewIncrementalFactory(def, easy, nil)
}

// NewIncrementalFactory: directors calculate incrementally and keep easy as the from-scratch reference.
// newIncremental may be nil, which is the same as NewEasyFactory.
func NewIncrementalFactory[S any](def *score.Definition, easy EasyCalculator[S], newIncremental func() IncrementalCalculator[S]) *Factory[S] {
	if def == nil || easy == nil {
		panic(kerror.Create("InvalidScoreDirectorFactory", "score definition and easy calculator are required").WithErrorCode(kerror.EC_INVALID_PARAMETER))
	}
	return &Factory[S]{
		def:            def,
		easy:           easy,
		newIncremental: newIncremental,
	}
}

func (f *Factory[S]) Definition() *score.Definition {
	return f.def
}

func (f *Factory[S]) IsIncremental() bool {
	return f.newIncremental != nil
}

// BuildScoreDirector: assertScoreFromScratch double checks every incremental score against a full recalculation.
// assertExactScoreFromScratch turns a mismatch into an error instead of a warning and a silent fix.
func (f *Factory[S]) BuildScoreDirector(assertScoreFromScratch bool, assertExactScoreFromScratch bool) *Director[S] {
	d := &Director[S]{
		factory:                     f,
		assertScoreFromScratch:      assertScoreFromScratch || assertExactScoreFromScratch,
		assertExactScoreFromScratch: assertExactScoreFromScratch,
	}
	if f.newIncremental != nil {
		d.incremental = f.newIncremental()
	}
	return d
}

func (f *Factory[S]) BuildScoreDirectorForMode(mode config.EnvironmentMode) *Director[S] {
	return f.BuildScoreDirector(mode.AssertScoreFromScratch(), mode.AssertExactScoreFromScratch())
}
