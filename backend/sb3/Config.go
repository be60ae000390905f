package sb3

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Activation is the activation function of the policy network
type Activation string

// Activations supported by the policy network
const (
	ReLU Activation = "relu"
	Tanh Activation = "tanh"
)

// PPOConfig holds the hyperparameters of PPO
type PPOConfig struct {
	Policy             string
	EntCoef            float64
	Verbose            int
	NSteps             int
	UseSDE             bool
	NormalizeAdvantage bool
	LearningRate       float64
	NEpochs            int
	Gamma              float64
	VFCoef             float64
	Activation         Activation
	NetArch            []int

	// TensorboardLog is the directory the library writes training
	// logs to. Empty disables them.
	TensorboardLog string
}

// NewPPOConfig returns the default PPO hyperparameters
func NewPPOConfig() PPOConfig {
	return PPOConfig{
		Policy:             "MultiInputPolicy",
		EntCoef:            0.001,
		Verbose:            2,
		NSteps:             4096,
		UseSDE:             false,
		NormalizeAdvantage: false,
		LearningRate:       0.0003,
		NEpochs:            5,
		Gamma:              0.99,
		VFCoef:             0.9,
		Activation:         ReLU,
		NetArch:            []int{1024, 256, 128},
		TensorboardLog:     DefaultLogDir,
	}
}

// Validate returns an error describing whether or not the
// hyperparameters are valid
func (p PPOConfig) Validate() error {
	if p.Policy == "" {
		return fmt.Errorf("validate: policy must be given")
	}
	if p.NSteps <= 0 {
		return fmt.Errorf("validate: n_steps must be positive but got %v",
			p.NSteps)
	}
	if p.NEpochs <= 0 {
		return fmt.Errorf("validate: n_epochs must be positive but got %v",
			p.NEpochs)
	}
	if p.LearningRate <= 0 {
		return fmt.Errorf("validate: learning_rate must be positive but "+
			"got %v", p.LearningRate)
	}
	if p.Gamma < 0 || p.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in [0, 1] but got %v",
			p.Gamma)
	}
	if p.EntCoef < 0 || p.VFCoef < 0 {
		return fmt.Errorf("validate: coefficients must be non-negative "+
			"but got ent_coef=%v vf_coef=%v", p.EntCoef, p.VFCoef)
	}
	if p.Activation != ReLU && p.Activation != Tanh {
		return fmt.Errorf("validate: unknown activation %q", p.Activation)
	}
	if len(p.NetArch) == 0 {
		return fmt.Errorf("validate: net_arch must have at least one layer")
	}
	for _, units := range p.NetArch {
		if units <= 0 {
			return fmt.Errorf("validate: illegal layer size %v in "+
				"net_arch %v", units, p.NetArch)
		}
	}
	return nil
}

// Defaults of the backend options
const (
	DefaultLogDir     = "logs/log"
	DefaultModelPath  = "logs/models/PPO"
	DefaultTrainSteps = 1_000_000
	DefaultEvalSteps  = 100_000
)

// Config holds the options of the backend
type Config struct {
	LogDir          string
	ModelPath       string
	TrainSteps      int
	EvalSteps       int
	CheckpointEvery int    // 0 saves only the final model
	ReturnsFile     string // Empty disables saving episode returns

	// TimestampCheckpoints names checkpoints by the time they are taken
	// instead of enumerating them
	TimestampCheckpoints bool

	PPO PPOConfig
}

// NewConfig returns a Config holding the default options
func NewConfig() Config {
	return Config{
		LogDir:     DefaultLogDir,
		ModelPath:  DefaultModelPath,
		TrainSteps: DefaultTrainSteps,
		EvalSteps:  DefaultEvalSteps,
		PPO:        NewPPOConfig(),
	}
}

// ParseConfig returns the default Config overridden by the options
// found in the launcher's forwarded extras. Extras the backend does
// not know are ignored.
func ParseConfig(extras []string) (Config, error) {
	cfg := NewConfig()

	flags := pflag.NewFlagSet("sb3", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Usage = func() {}
	flags.IntVar(&cfg.TrainSteps, "timesteps", cfg.TrainSteps,
		"number of environment steps to train for")
	flags.StringVar(&cfg.LogDir, "log_dir", cfg.LogDir,
		"directory of the training logs")
	flags.StringVar(&cfg.ModelPath, "model_path", cfg.ModelPath,
		"path to save the trained model at")
	flags.IntVar(&cfg.CheckpointEvery, "checkpoint_every",
		cfg.CheckpointEvery, "number of steps between checkpoints")
	flags.BoolVar(&cfg.TimestampCheckpoints, "timestamp_checkpoints",
		cfg.TimestampCheckpoints, "name checkpoints by the time they are taken")
	flags.StringVar(&cfg.ReturnsFile, "returns_file", cfg.ReturnsFile,
		"file to save episode returns in")

	if err := flags.Parse(extras); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}
	cfg.PPO.TensorboardLog = cfg.LogDir

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}
	return cfg, nil
}

// Validate returns an error describing whether or not the options are
// valid
func (c Config) Validate() error {
	if c.TrainSteps <= 0 {
		return fmt.Errorf("validate: timesteps must be positive but got %v",
			c.TrainSteps)
	}
	if c.EvalSteps <= 0 {
		return fmt.Errorf("validate: evaluation steps must be positive "+
			"but got %v", c.EvalSteps)
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("validate: checkpoint_every must be "+
			"non-negative but got %v", c.CheckpointEvery)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("validate: model_path must be given")
	}
	return c.PPO.Validate()
}
