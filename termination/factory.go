package termination

import (
	"math"
	"time"

	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/score"
)

// Factory builds a termination tree from a TerminationConfig.
type Factory struct {
	config *config.TerminationConfig
}

func NewFactory(cfg *config.TerminationConfig) *Factory {
	if cfg == nil {
		cfg = config.NewTerminationConfig()
	}
	return &Factory{config: cfg}
}

// BuildTermination returns nil (never terminate) when the config sets nothing.
func (f *Factory) BuildTermination(def *score.Definition) (Termination, error) {
	list, err := f.BuildTerminations(def)
	if err != nil {
		return nil, err
	}
	return f.BuildTerminationFromList(list)
}

// BuildTerminations returns the leaves of this config followed by the inner configs' terminations.
func (f *Factory) BuildTerminations(def *score.Definition) ([]Termination, error) {
	if err := f.config.Validate(); err != nil {
		return nil, err
	}
	list, err := f.BuildTimeBasedTerminations(def)
	if err != nil {
		return nil, err
	}
	cfg := f.config
	if cfg.BestScoreLimit != nil {
		limit, err := parseScore(def, "bestScoreLimit", *cfg.BestScoreLimit)
		if err != nil {
			return nil, err
		}
		list = append(list, NewBestScore(limit))
	}
	if cfg.BestScoreFeasible != nil {
		if !*cfg.BestScoreFeasible {
			return nil, kerror.CreateConfigError("InvalidBestScoreFeasible", "bestScoreFeasible can only be true")
		}
		if def != nil && def.HardLevelsSize() == 0 {
			return nil, kerror.CreateConfigError("InvalidBestScoreFeasible", "bestScoreFeasible needs a score with hard levels").With("definition", def.String())
		}
		list = append(list, NewBestScoreFeasible())
	}
	if cfg.StepCountLimit != nil {
		list = append(list, NewStepCount(*cfg.StepCountLimit))
	}
	if cfg.UnimprovedStepCountLimit != nil {
		list = append(list, NewUnimprovedStepCount(*cfg.UnimprovedStepCountLimit))
	}
	if cfg.ScoreCalculationCountLimit != nil {
		list = append(list, NewScoreCalculationCount(*cfg.ScoreCalculationCountLimit))
	}
	inner, err := f.BuildInnerTerminations(def)
	if err != nil {
		return nil, err
	}
	return append(list, inner...), nil
}

func (f *Factory) BuildTimeBasedTerminations(def *score.Definition) ([]Termination, error) {
	var list []Termination
	spentMs, hasSpent, err := f.CalculateTimeMillisSpentLimit()
	if err != nil {
		return nil, err
	}
	if hasSpent {
		list = append(list, NewTimeSpent(spentMs))
	}
	unimprovedMs, hasUnimproved, err := f.CalculateUnimprovedTimeMillisSpentLimit()
	if err != nil {
		return nil, err
	}
	threshold := f.config.UnimprovedScoreDifferenceThreshold
	if hasUnimproved {
		if threshold != nil {
			thresholdScore, err := parseScore(def, "unimprovedScoreDifferenceThreshold", *threshold)
			if err != nil {
				return nil, err
			}
			if !thresholdScore.IsBetterThan(def.Zero()) {
				return nil, kerror.CreateConfigError("InvalidScoreDifferenceThreshold", "unimprovedScoreDifferenceThreshold must be positive").With("threshold", *threshold)
			}
			list = append(list, NewUnimprovedTimeSpentScoreDifferenceThreshold(unimprovedMs, thresholdScore))
		} else {
			list = append(list, NewUnimprovedTimeSpent(unimprovedMs))
		}
	} else if threshold != nil {
		return nil, kerror.CreateConfigError("ThresholdWithoutUnimprovedLimit", "unimprovedScoreDifferenceThreshold can only be used if an unimproved*SpentLimit is also set").With("threshold", *threshold)
	}
	return list, nil
}

// BuildInnerTerminations builds one node per nested config, in declaration order.
// Each child is composed with its own style before it joins the parent's list.
func (f *Factory) BuildInnerTerminations(def *score.Definition) ([]Termination, error) {
	var list []Termination
	for i, child := range f.config.TerminationConfigList {
		node, err := NewFactory(child).BuildTermination(def)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, kerror.CreateConfigError("EmptyComposite", "nested termination config sets no limit").With("index", i)
		}
		list = append(list, node)
	}
	return list, nil
}

// BuildTerminationFromList: empty list gives nil, a single element is returned as is,
// otherwise a Composite with the configured style keeps the list order.
func (f *Factory) BuildTerminationFromList(list []Termination) (Termination, error) {
	switch len(list) {
	case 0:
		return nil, nil
	case 1:
		return list[0], nil
	default:
		return NewComposite(f.config.GetCompositionStyle(), list...)
	}
}

func (f *Factory) CalculateTimeMillisSpentLimit() (int64, bool, error) {
	cfg := f.config
	return calculateTimeMillis("", cfg.SpentLimit, []unitLimit{
		{name: "millisecondsSpentLimit", value: cfg.MillisecondsSpentLimit, unit: time.Millisecond},
		{name: "secondsSpentLimit", value: cfg.SecondsSpentLimit, unit: time.Second},
		{name: "minutesSpentLimit", value: cfg.MinutesSpentLimit, unit: time.Minute},
		{name: "hoursSpentLimit", value: cfg.HoursSpentLimit, unit: time.Hour},
		{name: "daysSpentLimit", value: cfg.DaysSpentLimit, unit: 24 * time.Hour},
	})
}

func (f *Factory) CalculateUnimprovedTimeMillisSpentLimit() (int64, bool, error) {
	cfg := f.config
	return calculateTimeMillis("unimproved", cfg.UnimprovedSpentLimit, []unitLimit{
		{name: "unimprovedMillisecondsSpentLimit", value: cfg.UnimprovedMillisecondsSpentLimit, unit: time.Millisecond},
		{name: "unimprovedSecondsSpentLimit", value: cfg.UnimprovedSecondsSpentLimit, unit: time.Second},
		{name: "unimprovedMinutesSpentLimit", value: cfg.UnimprovedMinutesSpentLimit, unit: time.Minute},
		{name: "unimprovedHoursSpentLimit", value: cfg.UnimprovedHoursSpentLimit, unit: time.Hour},
		{name: "unimprovedDaysSpentLimit", value: cfg.UnimprovedDaysSpentLimit, unit: 24 * time.Hour},
	})
}

type unitLimit struct {
	name  string
	value *int64
	unit  time.Duration
}

// calculateTimeMillis sums the unit fields. Setting both the duration and a unit field is ambiguous and rejected.
func calculateTimeMillis(group string, duration *time.Duration, units []unitLimit) (int64, bool, error) {
	var totalMs int64
	var setUnits []string
	for _, u := range units {
		if u.value == nil {
			continue
		}
		setUnits = append(setUnits, u.name)
		v := *u.value
		if v < 0 {
			return 0, false, kerror.CreateConfigError("NegativeSpentLimit", u.name+" must not be negative").With("value", v)
		}
		unitMs := u.unit.Milliseconds()
		if v > (math.MaxInt64-totalMs)/unitMs {
			return 0, false, kerror.CreateConfigError("SpentLimitOverflow", u.name+" is too large").With("value", v)
		}
		totalMs += v * unitMs
	}
	if duration != nil {
		if len(setUnits) > 0 {
			return 0, false, kerror.CreateConfigError("ConflictingSpentLimit", "a spent limit duration can not be combined with unit fields").With("group", group).With("unitFields", setUnits)
		}
		if *duration < 0 {
			return 0, false, kerror.CreateConfigError("NegativeSpentLimit", "spent limit must not be negative").With("group", group).With("value", duration.String())
		}
		return duration.Milliseconds(), true, nil
	}
	return totalMs, len(setUnits) > 0, nil
}

func parseScore(def *score.Definition, field string, text string) (score.Score, error) {
	if def == nil {
		return score.Score{}, kerror.CreateConfigError("MissingScoreDefinition", field+" needs a score definition").With("value", text)
	}
	s, err := def.Parse(text)
	if err != nil {
		return score.Score{}, kerror.Wrap(err, "InvalidScoreLimit", "failed to parse "+field+": "+err.Error(), false).With("field", field)
	}
	return s, nil
}
