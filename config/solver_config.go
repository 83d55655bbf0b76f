package config

import (
	"encoding/json"

	"github.com/xinkaiwang/solvercore/kerror"
)

const (
	DefaultRandomSeed   int64 = 0
	DefaultMovesPerStep       = 20
	DefaultStartCount         = 1
)

// SolverConfigJson is the on-disk form, every field optional.
type SolverConfigJson struct {
	EnvironmentMode *EnvironmentMode   `json:"environment_mode,omitempty" yaml:"environment_mode,omitempty" validate:"omitempty,oneof=FULL_ASSERT FAST_ASSERT REPRODUCIBLE NON_REPRODUCIBLE"`
	RandomSeed      *int64             `json:"random_seed,omitempty" yaml:"random_seed,omitempty"`
	MovesPerStep    *int               `json:"moves_per_step,omitempty" yaml:"moves_per_step,omitempty" validate:"omitempty,gte=1"`
	StartCount      *int               `json:"start_count,omitempty" yaml:"start_count,omitempty" validate:"omitempty,gte=1"`
	Termination     *TerminationConfig `json:"termination,omitempty" yaml:"termination,omitempty"`
}

func (sc *SolverConfigJson) Validate() error {
	return validateStruct("SolverConfig", sc)
}

func (sc *SolverConfigJson) ToJson() string {
	data, err := json.Marshal(sc)
	if err != nil {
		ke := kerror.Wrap(err, "MarshalError", "failed to marshal SolverConfigJson", false)
		panic(ke)
	}
	return string(data)
}

// SolverConfig is the resolved form, defaults applied.
type SolverConfig struct {
	EnvironmentMode EnvironmentMode
	RandomSeed      int64
	MovesPerStep    int
	StartCount      int
	Termination     *TerminationConfig
}

func NewSolverConfig() SolverConfig {
	return SolverConfig{
		EnvironmentMode: EM_REPRODUCIBLE,
		RandomSeed:      DefaultRandomSeed,
		MovesPerStep:    DefaultMovesPerStep,
		StartCount:      DefaultStartCount,
		Termination:     NewTerminationConfig(),
	}
}

func SolverConfigJsonToConfig(sjc *SolverConfigJson) SolverConfig {
	cfg := NewSolverConfig()
	if sjc == nil {
		return cfg
	}
	if sjc.EnvironmentMode != nil {
		cfg.EnvironmentMode = *sjc.EnvironmentMode
	}
	if sjc.RandomSeed != nil {
		cfg.RandomSeed = *sjc.RandomSeed
	}
	if sjc.MovesPerStep != nil {
		cfg.MovesPerStep = *sjc.MovesPerStep
	}
	if sjc.StartCount != nil {
		cfg.StartCount = *sjc.StartCount
	}
	if sjc.Termination != nil {
		cfg.Termination = sjc.Termination
	}
	return cfg
}
