package termination

import (
	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/score"
)

// IsTerminated evaluates the tree against scope. A nil tree never terminates.
func IsTerminated(t Termination, scope *Scope) bool {
	switch node := t.(type) {
	case nil:
		return false
	case *TimeSpent:
		return scope.NowMs-scope.StartTimeMs >= node.LimitMs
	case *UnimprovedTimeSpent:
		return scope.NowMs-node.lastImprovement(scope) >= node.LimitMs
	case *UnimprovedTimeSpentScoreDifferenceThreshold:
		return scope.NowMs > node.safeTime(scope)
	case *StepCount:
		return scope.StepCount >= node.Limit
	case *UnimprovedStepCount:
		return scope.UnimprovedStepCount >= node.Limit
	case *BestScore:
		return !scope.BestScore.IsNil() && scope.BestScore.IsBetterOrEqual(node.Limit)
	case *BestScoreFeasible:
		return !scope.BestScore.IsNil() && scope.BestScore.IsFeasible()
	case *ScoreCalculationCount:
		return scope.ScoreCalculationCount >= node.Limit
	case *Composite:
		if node.Style == config.CS_AND {
			for _, child := range node.Children {
				if !IsTerminated(child, scope) {
					return false
				}
			}
			return true
		}
		for _, child := range node.Children {
			if IsTerminated(child, scope) {
				return true
			}
		}
		return false
	default:
		panic(unknownNode(t))
	}
}

// TerminatedBy lists the leaves that currently report "terminate", in tree order. Used for logging.
func TerminatedBy(t Termination, scope *Scope) []Termination {
	var out []Termination
	var visit func(node Termination)
	visit = func(node Termination) {
		if composite, ok := node.(*Composite); ok {
			for _, child := range composite.Children {
				visit(child)
			}
			return
		}
		if node != nil && IsTerminated(node, scope) {
			out = append(out, node)
		}
	}
	visit(t)
	return out
}

// TimeGradient estimates progress towards termination in [0,1].
// AND takes the slowest child, OR the fastest. Leaves with no meaningful progress report 0 until they terminate.
func TimeGradient(t Termination, scope *Scope) float64 {
	switch node := t.(type) {
	case nil:
		return 0
	case *TimeSpent:
		return ratio(scope.NowMs-scope.StartTimeMs, node.LimitMs)
	case *UnimprovedTimeSpent:
		return ratio(scope.NowMs-node.lastImprovement(scope), node.LimitMs)
	case *UnimprovedTimeSpentScoreDifferenceThreshold:
		return ratio(scope.NowMs-(node.safeTime(scope)-node.LimitMs), node.LimitMs)
	case *StepCount:
		return ratio(int64(scope.StepCount), int64(node.Limit))
	case *UnimprovedStepCount:
		return ratio(int64(scope.UnimprovedStepCount), int64(node.Limit))
	case *ScoreCalculationCount:
		return ratio(scope.ScoreCalculationCount, node.Limit)
	case *BestScore, *BestScoreFeasible:
		if IsTerminated(node, scope) {
			return 1
		}
		return 0
	case *Composite:
		if node.Style == config.CS_AND {
			gradient := 1.0
			for _, child := range node.Children {
				gradient = min(gradient, TimeGradient(child, scope))
			}
			return gradient
		}
		gradient := 0.0
		for _, child := range node.Children {
			gradient = max(gradient, TimeGradient(child, scope))
		}
		return gradient
	default:
		panic(unknownNode(t))
	}
}

func ratio(done, limit int64) float64 {
	if limit <= 0 {
		return 1
	}
	if done <= 0 {
		return 0
	}
	return min(1.0, float64(done)/float64(limit))
}

// PhaseStarted resets the stateful leaves. initialBest may be the zero Score when not known yet.
func PhaseStarted(t Termination, nowMs int64, initialBest score.Score) {
	walk(t, func(node Termination) {
		switch leaf := node.(type) {
		case *UnimprovedTimeSpent:
			leaf.started = true
			leaf.lastImprovementMs = nowMs
		case *UnimprovedTimeSpentScoreDifferenceThreshold:
			leaf.phaseStarted(nowMs, initialBest)
		}
	})
}

// BestScoreImproved must be called every time the loop finds a new best score.
func BestScoreImproved(t Termination, nowMs int64, best score.Score) {
	walk(t, func(node Termination) {
		switch leaf := node.(type) {
		case *UnimprovedTimeSpent:
			leaf.started = true
			leaf.lastImprovementMs = nowMs
		case *UnimprovedTimeSpentScoreDifferenceThreshold:
			leaf.bestScoreImproved(nowMs, best)
		}
	})
}

func walk(t Termination, visitor func(node Termination)) {
	if t == nil {
		return
	}
	visitor(t)
	if composite, ok := t.(*Composite); ok {
		for _, child := range composite.Children {
			walk(child, visitor)
		}
	}
}

func unknownNode(t Termination) *kerror.Kerror {
	return kerror.Create("UnknownTermination", "unknown termination node").With("node", t.String()).WithErrorCode(kerror.EC_ILLEGAL_STATE)
}
