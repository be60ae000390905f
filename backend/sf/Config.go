package sf

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

// Defaults of the backend options
const (
	DefaultTrainDir         = "logs/sf"
	DefaultNumWorkers       = 1
	DefaultNumEnvsPerWorker = 1
)

// Config holds the options of a sample-factory run
type Config struct {
	Experiment       string
	TrainDir         string
	NumWorkers       int
	NumEnvsPerWorker int
	Seed             uint64

	// Extras holds all forwarded launcher arguments, in order, for the
	// library to parse its own options from
	Extras []string
}

// ParseConfig returns the Config of a training run described by the
// forwarded extras. The experiment name defaults to experimentName, or
// to a generated unique name if neither names one.
func ParseConfig(experimentName string, extras []string) (Config, error) {
	return parseConfig(experimentName, extras, true)
}

// ParseEnjoyConfig returns the Config of a run of a trained experiment
// described by the forwarded extras. The experiment must be named by
// experimentName or the extras.
func ParseEnjoyConfig(experimentName string, extras []string) (Config,
	error) {
	return parseConfig(experimentName, extras, false)
}

func parseConfig(experimentName string, extras []string,
	generate bool) (Config, error) {
	cfg := Config{
		Experiment:       experimentName,
		TrainDir:         DefaultTrainDir,
		NumWorkers:       DefaultNumWorkers,
		NumEnvsPerWorker: DefaultNumEnvsPerWorker,
		Extras:           append([]string(nil), extras...),
	}

	flags := pflag.NewFlagSet("sf", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Usage = func() {}
	flags.StringVar(&cfg.Experiment, "experiment", cfg.Experiment,
		"name of the experiment")
	flags.StringVar(&cfg.TrainDir, "train_dir", cfg.TrainDir,
		"root directory of experiments")
	flags.IntVar(&cfg.NumWorkers, "num_workers", cfg.NumWorkers,
		"number of rollout workers")
	flags.IntVar(&cfg.NumEnvsPerWorker, "num_envs_per_worker",
		cfg.NumEnvsPerWorker, "number of simulations per worker")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "base random seed")

	if err := flags.Parse(extras); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}
	if cfg.Experiment == "" && generate {
		cfg.Experiment = "gdrl-" + uuid.NewString()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}
	return cfg, nil
}

// Validate returns an error describing whether or not the options are
// valid
func (c Config) Validate() error {
	if c.Experiment == "" {
		return fmt.Errorf("validate: experiment must be named with " +
			"--experiment_name or --experiment")
	}
	if c.TrainDir == "" {
		return fmt.Errorf("validate: train_dir must be given")
	}
	if c.NumWorkers < 1 {
		return fmt.Errorf("validate: num_workers must be positive but "+
			"got %v", c.NumWorkers)
	}
	if c.NumEnvsPerWorker < 1 {
		return fmt.Errorf("validate: num_envs_per_worker must be positive "+
			"but got %v", c.NumEnvsPerWorker)
	}
	return nil
}
