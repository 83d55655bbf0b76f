package localsearch

import (
	"context"

	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/klogging"
	"github.com/xinkaiwang/solvercore/score"
	"github.com/xinkaiwang/solvercore/scoredirector"
	"github.com/xinkaiwang/solvercore/termination"
)

// Phase is a plain hill climber: each step samples movesPerStep random moves and keeps the best one if it improves the score.
// The working solution installed in the director is modified in place.
type Phase[S any] struct {
	director     *scoredirector.Director[S]
	termination  termination.Termination
	selector     MoveSelector[S]
	rnd          *kcommon.SafeRand
	movesPerStep int
}

func NewPhase[S any](director *scoredirector.Director[S], term termination.Termination, selector MoveSelector[S], rnd *kcommon.SafeRand, movesPerStep int) *Phase[S] {
	if movesPerStep <= 0 {
		movesPerStep = 1
	}
	return &Phase[S]{
		director:     director,
		termination:  term,
		selector:     selector,
		rnd:          rnd,
		movesPerStep: movesPerStep,
	}
}

// WorkingSolution is the solution the phase modifies, it holds the best found so far once Solve returned.
func (p *Phase[S]) WorkingSolution() S {
	return p.director.WorkingSolution()
}

type Result struct {
	RunId                 string
	BestScore             score.Score
	StepCount             int
	ScoreCalculationCount int64
	TimeSpentMs           int64
	EndReason             string
	TerminatedBy          []string
}

// Solve runs until the termination tree says stop, no move can be selected, or ctx is canceled (returns ctx.Err()).
// A score calculation error (corruption in exact mode, calculator panic) aborts the phase.
func (p *Phase[S]) Solve(ctx context.Context) (*Result, error) {
	if p.termination == nil {
		return nil, kerror.CreateConfigError("MissingTermination", "local search needs a termination, it would never stop otherwise")
	}
	startMs := kcommon.GetMonoTimeMs()
	scope := &termination.Scope{StartTimeMs: startMs, NowMs: startMs}

	current, err := p.director.CalculateScore(ctx)
	if err != nil {
		return nil, err
	}
	scope.BestScore = current
	scope.ScoreCalculationCount = p.director.CalculationCount()
	termination.PhaseStarted(p.termination, startMs, current)
	klogging.Info(ctx).With("initialScore", current.String()).With("termination", p.termination.String()).Log("PhaseStarted", "")

	endReason := ER_TERMINATED
	for {
		if ctx.Err() != nil {
			endReason = ER_CANCELED
			break
		}
		scope.NowMs = kcommon.GetMonoTimeMs()
		if termination.IsTerminated(p.termination, scope) {
			break
		}

		move, moveScore, found, err := p.pickMove(ctx, current)
		if err != nil {
			return nil, err
		}
		if !found {
			endReason = ER_NO_MOVE
			break
		}
		scope.StepCount++
		scope.ScoreCalculationCount = p.director.CalculationCount()
		if move != nil {
			move.Do(p.director)
			p.director.SetLastCompletedAction(move.Describe())
			current = moveScore
			scope.BestScore = current
			scope.UnimprovedStepCount = 0
			nowMs := kcommon.GetMonoTimeMs()
			termination.BestScoreImproved(p.termination, nowMs, current)
			StepMetric.GetTimeSequence(ctx, "true").Add(1)
			klogging.Debug(ctx).With("stepIndex", scope.StepCount).With("score", current.String()).With("move", move.Describe()).Log("NewBestScore", "")
		} else {
			scope.UnimprovedStepCount++
			StepMetric.GetTimeSequence(ctx, "false").Add(1)
			klogging.Verbose(ctx).With("stepIndex", scope.StepCount).With("score", current.String()).Log("StepEnded", "")
		}
	}

	result := &Result{
		RunId:                 klogging.GetRunId(ctx),
		BestScore:             scope.BestScore,
		StepCount:             scope.StepCount,
		ScoreCalculationCount: p.director.CalculationCount(),
		TimeSpentMs:           kcommon.GetMonoTimeMs() - startMs,
		EndReason:             endReason,
	}
	for _, leaf := range termination.TerminatedBy(p.termination, scope) {
		result.TerminatedBy = append(result.TerminatedBy, leaf.String())
	}
	PhaseEndMetric.GetTimeSequence(ctx, endReason).Add(int64(result.StepCount))
	klogging.Info(ctx).
		With("bestScore", result.BestScore.String()).
		With("stepCount", result.StepCount).
		With("scoreCalculationCount", result.ScoreCalculationCount).
		With("timeSpentMs", result.TimeSpentMs).
		With("endReason", endReason).
		With("terminatedBy", result.TerminatedBy).
		Log("PhaseEnded", "")
	if endReason == ER_CANCELED {
		return result, ctx.Err()
	}
	return result, nil
}

// pickMove tries up to movesPerStep moves, undoing each one, and returns the best move strictly better than current (nil if none).
// found is false when the selector has no move at all.
func (p *Phase[S]) pickMove(ctx context.Context, current score.Score) (best Move[S], bestScore score.Score, found bool, err error) {
	for i := 0; i < p.movesPerStep; i++ {
		move := p.selector.SelectMove(ctx, p.director.WorkingSolution(), p.rnd)
		if move == nil {
			break
		}
		found = true
		move.Do(p.director)
		p.director.SetLastCompletedAction(move.Describe())
		s, calcErr := p.director.CalculateScore(ctx)
		move.Undo(p.director)
		p.director.SetLastCompletedAction("undo " + move.Describe())
		if calcErr != nil {
			return nil, score.Score{}, found, calcErr
		}
		if s.IsBetterThan(current) && (best == nil || s.IsBetterThan(bestScore)) {
			best = move
			bestScore = s
		}
	}
	return best, bestScore, found, nil
}
