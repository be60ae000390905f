// Package launcher selects and runs the training or evaluation entry
// point of an RL training backend from the launcher's options.
package launcher

import (
	"fmt"

	"github.com/samuelfneumann/godotrl/environment/envconfig"
)

// Trainer names a training backend
type Trainer string

// Trainers available for selection
const (
	SB3   Trainer = "sb3"
	SF    Trainer = "sf"
	RLlib Trainer = "rllib"
)

// Trainers lists the trainers in the order they are offered to users
var Trainers = []Trainer{SB3, SF, RLlib}

// Defaults of the launcher options
const (
	DefaultTrainer    = SB3
	DefaultConfigFile = "ppo_test.yaml"
	DefaultSpeedup    = 1
)

// Args holds the options of the launcher. Empty strings stand for
// options which were not given.
type Args struct {
	Trainer    Trainer
	EnvPath    string // Empty attaches to a running interactive instance
	ConfigFile string // Backend-specific config, used by rllib
	Restore    string // Checkpoint to resume from
	Eval       bool
	Speedup    int // Simulation tick-rate multiplier
	Export     bool
	NumGPUs    *int // nil if not given, used by rllib
	Viz        bool

	ExperimentName string // Used by rllib
	LoadSB3        string // Model to load, used by sb3
}

// NewArgs returns Args holding the default launcher options
func NewArgs() Args {
	return Args{
		Trainer:    DefaultTrainer,
		ConfigFile: DefaultConfigFile,
		Speedup:    DefaultSpeedup,
	}
}

// Validate returns an error describing whether or not the options are
// valid. The trainer is validated on selection.
func (a Args) Validate() error {
	if a.Speedup < 1 {
		return fmt.Errorf("validate: speedup must be a positive integer "+
			"but got %v", a.Speedup)
	}
	if a.NumGPUs != nil && *a.NumGPUs < 0 {
		return fmt.Errorf("validate: num_gpus must be non-negative but "+
			"got %v", *a.NumGPUs)
	}
	return nil
}

// EnvConfig returns the simulation connection configuration described
// by the options
func (a Args) EnvConfig() envconfig.Config {
	return envconfig.NewConfig(a.EnvPath, a.Viz, a.Speedup)
}
