package localsearch

import (
	"context"

	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/scoredirector"
)

// Move is one change to the working solution. Do and Undo must notify the director
// (BeforeVariableChanged/AfterVariableChanged) around every variable they touch.
// Do may be called again after Undo.
type Move[S any] interface {
	Do(director *scoredirector.Director[S])
	Undo(director *scoredirector.Director[S])
	Describe() string
}

// MoveSelector picks a random move for the current working solution. nil means no move is possible.
type MoveSelector[S any] interface {
	SelectMove(ctx context.Context, solution S, rnd *kcommon.SafeRand) Move[S]
}

type MoveSelectorFunc[S any] func(ctx context.Context, solution S, rnd *kcommon.SafeRand) Move[S]

func (fn MoveSelectorFunc[S]) SelectMove(ctx context.Context, solution S, rnd *kcommon.SafeRand) Move[S] {
	return fn(ctx, solution, rnd)
}
