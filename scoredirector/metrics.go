package scoredirector

import (
	"context"

	"github.com/xinkaiwang/solvercore/kmetrics"
)

var (
	ScoreCalculationMetric   = kmetrics.CreateKmetric(context.Background(), "score_calculation", "score calculations by strategy", []string{"strategy"}).CountOnly()
	CalculationFailureMetric = kmetrics.CreateKmetric(context.Background(), "score_calculation_failure", "user calculator panics", []string{"strategy"}).CountOnly()
	ScoreCorruptionMetric    = kmetrics.CreateKmetric(context.Background(), "score_corruption", "incremental score differs from the full score", []string{"mode"}).CountOnly()
)

const (
	strategyEasy        = "easy"
	strategyIncremental = "incremental"
)

func corruptionMode(exact bool) string {
	if exact {
		return "exact"
	}
	return "non_exact"
}
