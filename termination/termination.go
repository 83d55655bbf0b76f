package termination

import (
	"fmt"
	"strings"

	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/score"
)

// Termination is a node of a termination tree. The set of node types is closed:
// the leaves below plus Composite. Evaluation lives in IsTerminated.
type Termination interface {
	fmt.Stringer
	isTermination()
}

// Scope is what the solving loop knows at the moment it asks whether to stop.
type Scope struct {
	StartTimeMs           int64
	NowMs                 int64
	StepCount             int
	UnimprovedStepCount   int
	BestScore             score.Score // zero value before the first calculation
	ScoreCalculationCount int64
}

// TimeSpent: stop once LimitMs passed since the phase started.
type TimeSpent struct {
	LimitMs int64
}

func NewTimeSpent(limitMs int64) *TimeSpent {
	return &TimeSpent{LimitMs: limitMs}
}

func (t *TimeSpent) isTermination() {}

func (t *TimeSpent) String() string {
	return fmt.Sprintf("TimeSpent(%dms)", t.LimitMs)
}

// UnimprovedTimeSpent: stop once LimitMs passed since the last best score improvement.
type UnimprovedTimeSpent struct {
	LimitMs int64

	started           bool
	lastImprovementMs int64
}

func NewUnimprovedTimeSpent(limitMs int64) *UnimprovedTimeSpent {
	return &UnimprovedTimeSpent{LimitMs: limitMs}
}

func (t *UnimprovedTimeSpent) isTermination() {}

func (t *UnimprovedTimeSpent) String() string {
	return fmt.Sprintf("UnimprovedTimeSpent(%dms)", t.LimitMs)
}

func (t *UnimprovedTimeSpent) lastImprovement(scope *Scope) int64 {
	if !t.started {
		return scope.StartTimeMs
	}
	return t.lastImprovementMs
}

type scoreSnapshot struct {
	timeMs int64
	best   score.Score
}

// UnimprovedTimeSpentScoreDifferenceThreshold: stop unless the best score improved by at least Threshold
// within the last LimitMs. Small improvements do not extend the deadline.
type UnimprovedTimeSpentScoreDifferenceThreshold struct {
	LimitMs   int64
	Threshold score.Score

	started    bool
	safeTimeMs int64
	history    []scoreSnapshot // oldest first
}

func NewUnimprovedTimeSpentScoreDifferenceThreshold(limitMs int64, threshold score.Score) *UnimprovedTimeSpentScoreDifferenceThreshold {
	return &UnimprovedTimeSpentScoreDifferenceThreshold{LimitMs: limitMs, Threshold: threshold}
}

func (t *UnimprovedTimeSpentScoreDifferenceThreshold) isTermination() {}

func (t *UnimprovedTimeSpentScoreDifferenceThreshold) String() string {
	return fmt.Sprintf("UnimprovedTimeSpentScoreDifferenceThreshold(%dms, %v)", t.LimitMs, t.Threshold)
}

func (t *UnimprovedTimeSpentScoreDifferenceThreshold) safeTime(scope *Scope) int64 {
	if !t.started {
		return scope.StartTimeMs + t.LimitMs
	}
	return t.safeTimeMs
}

func (t *UnimprovedTimeSpentScoreDifferenceThreshold) phaseStarted(nowMs int64, best score.Score) {
	t.started = true
	t.safeTimeMs = nowMs + t.LimitMs
	t.history = t.history[:0]
	if !best.IsNil() {
		t.history = append(t.history, scoreSnapshot{timeMs: nowMs, best: best})
	}
}

func (t *UnimprovedTimeSpentScoreDifferenceThreshold) bestScoreImproved(nowMs int64, best score.Score) {
	if !t.started {
		t.started = true
		t.safeTimeMs = nowMs + t.LimitMs
	}
	removed := 0
	for _, snapshot := range t.history {
		diff := best.Subtract(snapshot.best)
		improvedEnough := diff.Compare(t.Threshold) >= 0
		withinLimit := snapshot.timeMs+t.LimitMs >= nowMs
		if !improvedEnough || !withinLimit {
			break
		}
		removed++
		t.safeTimeMs = nowMs + t.LimitMs
	}
	t.history = append(t.history[removed:], scoreSnapshot{timeMs: nowMs, best: best})
}

// StepCount: stop once Limit steps were taken.
type StepCount struct {
	Limit int
}

func NewStepCount(limit int) *StepCount {
	return &StepCount{Limit: limit}
}

func (t *StepCount) isTermination() {}

func (t *StepCount) String() string {
	return fmt.Sprintf("StepCount(%d)", t.Limit)
}

// UnimprovedStepCount: stop once Limit steps in a row did not improve the best score.
type UnimprovedStepCount struct {
	Limit int
}

func NewUnimprovedStepCount(limit int) *UnimprovedStepCount {
	return &UnimprovedStepCount{Limit: limit}
}

func (t *UnimprovedStepCount) isTermination() {}

func (t *UnimprovedStepCount) String() string {
	return fmt.Sprintf("UnimprovedStepCount(%d)", t.Limit)
}

// BestScore: stop once the best score is at least Limit.
type BestScore struct {
	Limit score.Score
}

func NewBestScore(limit score.Score) *BestScore {
	return &BestScore{Limit: limit}
}

func (t *BestScore) isTermination() {}

func (t *BestScore) String() string {
	return fmt.Sprintf("BestScore(%v)", t.Limit)
}

// BestScoreFeasible: stop as soon as the best score is feasible.
type BestScoreFeasible struct{}

func NewBestScoreFeasible() *BestScoreFeasible {
	return &BestScoreFeasible{}
}

func (t *BestScoreFeasible) isTermination() {}

func (t *BestScoreFeasible) String() string {
	return "BestScoreFeasible"
}

// ScoreCalculationCount: stop once Limit scores were calculated.
type ScoreCalculationCount struct {
	Limit int64
}

func NewScoreCalculationCount(limit int64) *ScoreCalculationCount {
	return &ScoreCalculationCount{Limit: limit}
}

func (t *ScoreCalculationCount) isTermination() {}

func (t *ScoreCalculationCount) String() string {
	return fmt.Sprintf("ScoreCalculationCount(%d)", t.Limit)
}

// Composite combines children with AND (all must terminate) or OR (any terminates).
// Children are evaluated in order and evaluation short-circuits.
type Composite struct {
	Style    config.CompositionStyle
	Children []Termination
}

func NewComposite(style config.CompositionStyle, children ...Termination) (*Composite, error) {
	if len(children) == 0 {
		return nil, kerror.CreateConfigError("EmptyComposite", "a composite termination needs at least one child").With("style", style)
	}
	if style != config.CS_AND && style != config.CS_OR {
		return nil, kerror.CreateConfigError("UnknownCompositionStyle", "composition style must be AND or OR").With("style", style)
	}
	for i, child := range children {
		if child == nil {
			return nil, kerror.CreateConfigError("NilTermination", "composite child is nil").With("index", i)
		}
	}
	return &Composite{Style: style, Children: append([]Termination(nil), children...)}, nil
}

func (t *Composite) isTermination() {}

func (t *Composite) String() string {
	parts := make([]string, 0, len(t.Children))
	for _, child := range t.Children {
		parts = append(parts, child.String())
	}
	return fmt.Sprintf("%s(%s)", t.Style, strings.Join(parts, ", "))
}
