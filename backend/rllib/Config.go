package rllib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"

	"github.com/samuelfneumann/godotrl/environment/envconfig"
	"github.com/samuelfneumann/godotrl/launcher"
)

// Frameworks supported by rllib
var Frameworks = []string{"torch", "tf", "tf2"}

// Config describes an rllib experiment
type Config struct {
	Algorithm           string          `yaml:"algorithm"`
	Stop                Stop            `yaml:"stop"`
	CheckpointFrequency int             `yaml:"checkpoint_frequency"`
	ExportFrequency     int             `yaml:"export_frequency"`
	Config              AlgorithmConfig `yaml:"config"`

	// Set from the launcher options
	Name    string `yaml:"-"`
	Restore string `yaml:"-"` // Checkpoint to resume from, if any
	Export  bool   `yaml:"-"`
}

// Stop holds the criteria ending an experiment. Zero values are unset.
type Stop struct {
	TrainingIteration int      `yaml:"training_iteration,omitempty"`
	TimestepsTotal    int      `yaml:"timesteps_total,omitempty"`
	EpisodeRewardMean *float64 `yaml:"episode_reward_mean,omitempty"`
}

// EnvConfig holds the simulation options passed to every worker
type EnvConfig struct {
	EnvPath      string `yaml:"env_path"`
	ShowWindow   bool   `yaml:"show_window"`
	Speedup      int    `yaml:"speedup"`
	ActionRepeat int    `yaml:"action_repeat"`
}

// ModelConfig holds the options of the policy network
type ModelConfig struct {
	FCNetHiddens   []int  `yaml:"fcnet_hiddens,omitempty"`
	FCNetActivation string `yaml:"fcnet_activation,omitempty"`
	VFShareLayers  bool   `yaml:"vf_share_layers"`
}

// AlgorithmConfig holds the options of the algorithm. Options without
// a typed field are kept in Extra and passed to the library as is.
type AlgorithmConfig struct {
	Env              string    `yaml:"env"`
	EnvConfig        EnvConfig `yaml:"env_config"`
	Framework        string    `yaml:"framework"`
	NumWorkers       int       `yaml:"num_workers"`
	NumEnvsPerWorker int       `yaml:"num_envs_per_worker"`
	NumGPUs          int       `yaml:"num_gpus"`

	LR               float64 `yaml:"lr,omitempty"`
	Gamma            float64 `yaml:"gamma"`
	Lambda           float64 `yaml:"lambda"`
	ClipParam        float64 `yaml:"clip_param"`
	VFClipParam      float64 `yaml:"vf_clip_param,omitempty"`
	EntropyCoeff     float64 `yaml:"entropy_coeff"`
	TrainBatchSize   int     `yaml:"train_batch_size"`
	SGDMinibatchSize int     `yaml:"sgd_minibatch_size"`
	NumSGDIter       int     `yaml:"num_sgd_iter"`

	Model ModelConfig `yaml:"model"`

	Extra map[string]interface{} `yaml:",inline"`
}

// DefaultConfig returns the Config used for options absent from a
// config file
func DefaultConfig() Config {
	return Config{
		Algorithm: "PPO",
		Config: AlgorithmConfig{
			Env: envconfig.DefaultConnector,
			EnvConfig: EnvConfig{
				ShowWindow: true,
				Speedup:    envconfig.DefaultSpeedup,
			},
			Framework:        "torch",
			NumWorkers:       1,
			NumEnvsPerWorker: 1,
			Gamma:            0.99,
			Lambda:           0.95,
			ClipParam:        0.2,
			EntropyCoeff:     0.001,
			TrainBatchSize:   1024,
			SGDMinibatchSize: 128,
			NumSGDIter:       16,
		},
	}
}

// Load reads the Config in the YAML file at path. Options absent from
// the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read config file: %w",
			err)
	}
	return Parse(data)
}

// Parse parses a YAML Config. Options absent from data keep their
// defaults.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}

	// A path of None in a config file means no path
	if strings.EqualFold(cfg.Config.EnvConfig.EnvPath, "none") {
		cfg.Config.EnvConfig.EnvPath = ""
	}
	return cfg, nil
}

// Override overrides the options of the experiment with the launcher
// options. When attaching to a running interactive instance only a
// single worker can be used.
func (c *Config) Override(args launcher.Args) {
	env := &c.Config.EnvConfig
	if args.EnvPath != "" {
		env.EnvPath = args.EnvPath
	}
	env.ShowWindow = args.Viz
	env.Speedup = args.Speedup

	if args.NumGPUs != nil {
		c.Config.NumGPUs = *args.NumGPUs
	}
	if env.EnvPath == "" {
		log.Info("attaching to the editor, setting workers to 1")
		c.Config.NumWorkers = 1
		c.Config.NumEnvsPerWorker = 1
	}

	c.Restore = args.Restore
	c.Export = args.Export

	switch {
	case args.ExperimentName != "":
		c.Name = args.ExperimentName
	case env.EnvPath != "":
		base := filepath.Base(env.EnvPath)
		c.Name = strings.TrimSuffix(base, filepath.Ext(base))
	default:
		c.Name = "gdrl-" + uuid.NewString()
	}
}

// Validate returns an error describing whether or not the Config is
// valid
func (c Config) Validate() error {
	if c.Algorithm == "" {
		return fmt.Errorf("validate: algorithm must be given")
	}
	if c.CheckpointFrequency < 0 || c.ExportFrequency < 0 {
		return fmt.Errorf("validate: frequencies must be non-negative "+
			"but got checkpoint_frequency=%v export_frequency=%v",
			c.CheckpointFrequency, c.ExportFrequency)
	}

	a := c.Config
	if a.Env == "" {
		return fmt.Errorf("validate: config.env must be given")
	}
	if !contains(Frameworks, a.Framework) {
		return fmt.Errorf("validate: unknown framework %q, expected one of "+
			"%v", a.Framework, Frameworks)
	}
	if a.NumWorkers < 0 {
		return fmt.Errorf("validate: num_workers must be non-negative but "+
			"got %v", a.NumWorkers)
	}
	if a.NumEnvsPerWorker < 1 {
		return fmt.Errorf("validate: num_envs_per_worker must be positive "+
			"but got %v", a.NumEnvsPerWorker)
	}
	if a.NumGPUs < 0 {
		return fmt.Errorf("validate: num_gpus must be non-negative but "+
			"got %v", a.NumGPUs)
	}
	if a.LR < 0 {
		return fmt.Errorf("validate: lr must be non-negative but got %v",
			a.LR)
	}
	if a.Gamma < 0 || a.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in [0, 1] but got %v",
			a.Gamma)
	}
	if a.Lambda < 0 || a.Lambda > 1 {
		return fmt.Errorf("validate: lambda must be in [0, 1] but got %v",
			a.Lambda)
	}
	if a.EnvConfig.Speedup < 1 {
		return fmt.Errorf("validate: speedup must be a positive integer "+
			"but got %v", a.EnvConfig.Speedup)
	}
	return nil
}

// EnvConfig returns the connection configuration shared by all
// workers
func (c Config) EnvConfig() envconfig.Config {
	env := c.Config.EnvConfig
	cfg := envconfig.NewConfig(env.EnvPath, env.ShowWindow, env.Speedup)
	cfg.Connector = c.Config.Env
	cfg.ActionRepeat = env.ActionRepeat
	return cfg
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
