package scoredirector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/score"
)

type ConstraintDiff struct {
	ConstraintName string
	WorkingScore   score.Score
	FullScore      score.Score
}

// CorruptionAnalysis describes an incremental score which disagrees with the full recalculation.
type CorruptionAnalysis struct {
	SolutionId      string
	WorkingScore    score.Score
	FullScore       score.Score
	Delta           score.Score // FullScore - WorkingScore
	CompletedAction string
	ConstraintDiffs []ConstraintDiff // empty unless both calculators expose constraint totals
}

func (d *Director[S]) buildCorruptionAnalysis(workingScore, fullScore score.Score, completedAction string) *CorruptionAnalysis {
	analysis := &CorruptionAnalysis{
		SolutionId:      d.solutionId,
		WorkingScore:    workingScore,
		FullScore:       fullScore,
		CompletedAction: completedAction,
	}
	if workingScore.Definition() != nil {
		analysis.Delta = fullScore.Subtract(workingScore)
	}
	incrementalAware, ok1 := d.incremental.(ConstraintMatchAware)
	easyAware, ok2 := d.factory.easy.(EasyConstraintMatchAware[S])
	if ok1 && ok2 {
		analysis.ConstraintDiffs = diffConstraintScores(d.factory.def, incrementalAware.ConstraintScores(), easyAware.ConstraintScoresOf(d.solution))
	}
	return analysis
}

// diffConstraintScores: a constraint missing on one side counts as zero there.
func diffConstraintScores(def *score.Definition, working, full map[string]score.Score) []ConstraintDiff {
	names := map[string]bool{}
	for name := range working {
		names[name] = true
	}
	for name := range full {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var diffs []ConstraintDiff
	for _, name := range sorted {
		w, ok := working[name]
		if !ok {
			w = def.Zero()
		}
		f, ok := full[name]
		if !ok {
			f = def.Zero()
		}
		if !w.Equal(f) {
			diffs = append(diffs, ConstraintDiff{ConstraintName: name, WorkingScore: w, FullScore: f})
		}
	}
	return diffs
}

func (ca *CorruptionAnalysis) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "score corruption (%v): the workingScore (%v) is not the fullScore (%v)", ca.Delta, ca.WorkingScore, ca.FullScore)
	if ca.CompletedAction != "" {
		fmt.Fprintf(&b, " after completedAction (%s)", ca.CompletedAction)
	}
	if len(ca.ConstraintDiffs) > 0 {
		b.WriteString("; constraints:")
		for _, diff := range ca.ConstraintDiffs {
			fmt.Fprintf(&b, " %s working=%v full=%v", diff.ConstraintName, diff.WorkingScore, diff.FullScore)
		}
	}
	return b.String()
}

func (ca *CorruptionAnalysis) ToError() *kerror.Kerror {
	ke := kerror.Create("ScoreCorruption", ca.String()).
		With("solutionId", ca.SolutionId).
		With("workingScore", ca.WorkingScore.String()).
		With("fullScore", ca.FullScore.String()).
		With("delta", ca.Delta.String()).
		With("completedAction", ca.CompletedAction).
		WithErrorCode(kerror.EC_SCORE_CORRUPTION)
	for _, diff := range ca.ConstraintDiffs {
		ke.With("constraint", diff.ConstraintName)
	}
	return ke
}
