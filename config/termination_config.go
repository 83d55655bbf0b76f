package config

import (
	"time"
)

type CompositionStyle string

const (
	CS_AND CompositionStyle = "AND"
	CS_OR  CompositionStyle = "OR"
)

// TerminationConfig: every field is optional. Unset means "no such limit".
// Within one group (total spent, unimproved spent) either the duration field or the unit fields may be set, not both.
type TerminationConfig struct {
	SpentLimit              *time.Duration `json:"spent_limit,omitempty" yaml:"spent_limit,omitempty" validate:"omitempty,gte=0"`
	MillisecondsSpentLimit  *int64         `json:"milliseconds_spent_limit,omitempty" yaml:"milliseconds_spent_limit,omitempty" validate:"omitempty,gte=0"`
	SecondsSpentLimit       *int64         `json:"seconds_spent_limit,omitempty" yaml:"seconds_spent_limit,omitempty" validate:"omitempty,gte=0"`
	MinutesSpentLimit       *int64         `json:"minutes_spent_limit,omitempty" yaml:"minutes_spent_limit,omitempty" validate:"omitempty,gte=0"`
	HoursSpentLimit         *int64         `json:"hours_spent_limit,omitempty" yaml:"hours_spent_limit,omitempty" validate:"omitempty,gte=0"`
	DaysSpentLimit          *int64         `json:"days_spent_limit,omitempty" yaml:"days_spent_limit,omitempty" validate:"omitempty,gte=0"`

	UnimprovedSpentLimit             *time.Duration `json:"unimproved_spent_limit,omitempty" yaml:"unimproved_spent_limit,omitempty" validate:"omitempty,gte=0"`
	UnimprovedMillisecondsSpentLimit *int64         `json:"unimproved_milliseconds_spent_limit,omitempty" yaml:"unimproved_milliseconds_spent_limit,omitempty" validate:"omitempty,gte=0"`
	UnimprovedSecondsSpentLimit      *int64         `json:"unimproved_seconds_spent_limit,omitempty" yaml:"unimproved_seconds_spent_limit,omitempty" validate:"omitempty,gte=0"`
	UnimprovedMinutesSpentLimit      *int64         `json:"unimproved_minutes_spent_limit,omitempty" yaml:"unimproved_minutes_spent_limit,omitempty" validate:"omitempty,gte=0"`
	UnimprovedHoursSpentLimit        *int64         `json:"unimproved_hours_spent_limit,omitempty" yaml:"unimproved_hours_spent_limit,omitempty" validate:"omitempty,gte=0"`
	UnimprovedDaysSpentLimit         *int64         `json:"unimproved_days_spent_limit,omitempty" yaml:"unimproved_days_spent_limit,omitempty" validate:"omitempty,gte=0"`

	// score text, parsed by the score definition in use, e.g. "0hard/10soft"
	UnimprovedScoreDifferenceThreshold *string `json:"unimproved_score_difference_threshold,omitempty" yaml:"unimproved_score_difference_threshold,omitempty"`

	StepCountLimit           *int `json:"step_count_limit,omitempty" yaml:"step_count_limit,omitempty" validate:"omitempty,gte=0"`
	UnimprovedStepCountLimit *int `json:"unimproved_step_count_limit,omitempty" yaml:"unimproved_step_count_limit,omitempty" validate:"omitempty,gte=0"`

	BestScoreLimit             *string `json:"best_score_limit,omitempty" yaml:"best_score_limit,omitempty"`
	BestScoreFeasible          *bool   `json:"best_score_feasible,omitempty" yaml:"best_score_feasible,omitempty"`
	ScoreCalculationCountLimit *int64  `json:"score_calculation_count_limit,omitempty" yaml:"score_calculation_count_limit,omitempty" validate:"omitempty,gte=0"`

	CompositionStyle      *CompositionStyle    `json:"composition_style,omitempty" yaml:"composition_style,omitempty" validate:"omitempty,oneof=AND OR"`
	TerminationConfigList []*TerminationConfig `json:"termination_config_list,omitempty" yaml:"termination_config_list,omitempty" validate:"omitempty,dive,required"`
}

func NewTerminationConfig() *TerminationConfig {
	return &TerminationConfig{}
}

// GetCompositionStyle: default is OR.
func (tc *TerminationConfig) GetCompositionStyle() CompositionStyle {
	if tc.CompositionStyle == nil {
		return CS_OR
	}
	return *tc.CompositionStyle
}

func (tc *TerminationConfig) Validate() error {
	return validateStruct("TerminationConfig", tc)
}

// builder style setters, mostly for code built configs and tests

func (tc *TerminationConfig) WithSpentLimit(d time.Duration) *TerminationConfig {
	tc.SpentLimit = &d
	return tc
}

func (tc *TerminationConfig) WithMillisecondsSpentLimit(v int64) *TerminationConfig {
	tc.MillisecondsSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithSecondsSpentLimit(v int64) *TerminationConfig {
	tc.SecondsSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithMinutesSpentLimit(v int64) *TerminationConfig {
	tc.MinutesSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithHoursSpentLimit(v int64) *TerminationConfig {
	tc.HoursSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithDaysSpentLimit(v int64) *TerminationConfig {
	tc.DaysSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithUnimprovedSpentLimit(d time.Duration) *TerminationConfig {
	tc.UnimprovedSpentLimit = &d
	return tc
}

func (tc *TerminationConfig) WithUnimprovedMillisecondsSpentLimit(v int64) *TerminationConfig {
	tc.UnimprovedMillisecondsSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithUnimprovedSecondsSpentLimit(v int64) *TerminationConfig {
	tc.UnimprovedSecondsSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithUnimprovedMinutesSpentLimit(v int64) *TerminationConfig {
	tc.UnimprovedMinutesSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithUnimprovedHoursSpentLimit(v int64) *TerminationConfig {
	tc.UnimprovedHoursSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithUnimprovedDaysSpentLimit(v int64) *TerminationConfig {
	tc.UnimprovedDaysSpentLimit = &v
	return tc
}

func (tc *TerminationConfig) WithUnimprovedScoreDifferenceThreshold(text string) *TerminationConfig {
	tc.UnimprovedScoreDifferenceThreshold = &text
	return tc
}

func (tc *TerminationConfig) WithStepCountLimit(v int) *TerminationConfig {
	tc.StepCountLimit = &v
	return tc
}

func (tc *TerminationConfig) WithUnimprovedStepCountLimit(v int) *TerminationConfig {
	tc.UnimprovedStepCountLimit = &v
	return tc
}

func (tc *TerminationConfig) WithBestScoreLimit(text string) *TerminationConfig {
	tc.BestScoreLimit = &text
	return tc
}

func (tc *TerminationConfig) WithBestScoreFeasible(v bool) *TerminationConfig {
	tc.BestScoreFeasible = &v
	return tc
}

func (tc *TerminationConfig) WithScoreCalculationCountLimit(v int64) *TerminationConfig {
	tc.ScoreCalculationCountLimit = &v
	return tc
}

func (tc *TerminationConfig) WithCompositionStyle(style CompositionStyle) *TerminationConfig {
	tc.CompositionStyle = &style
	return tc
}

func (tc *TerminationConfig) WithTerminationConfigList(list ...*TerminationConfig) *TerminationConfig {
	tc.TerminationConfigList = list
	return tc
}
