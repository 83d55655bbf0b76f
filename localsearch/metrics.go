package localsearch

import (
	"context"

	"github.com/xinkaiwang/solvercore/kmetrics"
)

var (
	StepMetric     = kmetrics.CreateKmetric(context.Background(), "solver_step", "local search steps", []string{"improved"}).CountOnly()
	PhaseEndMetric = kmetrics.CreateKmetric(context.Background(), "solver_phase_end", "local search phases by end reason, sum is steps", []string{"reason"})
)

const (
	ER_TERMINATED = "terminated"
	ER_NO_MOVE    = "noMove"
	ER_CANCELED   = "canceled"
)
