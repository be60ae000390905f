package sb3

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/vecenv"
	"github.com/samuelfneumann/godotrl/environment/wrappers"
	"github.com/samuelfneumann/godotrl/experiment/checkpointer"
	"github.com/samuelfneumann/godotrl/experiment/tracker"
	"github.com/samuelfneumann/godotrl/launcher"
	"github.com/samuelfneumann/godotrl/utils/progressbar"
)

var log = logrus.WithField("component", "sb3")

// Backend trains and evaluates PPO models on a simulation
type Backend struct {
	Library Library

	// Connector opens the simulation. If nil, the Connector registered
	// under the configured connector name is used.
	Connector environment.Connector

	// Progress receives a progress bar of training. If nil, no progress
	// is displayed.
	Progress io.Writer
}

// New returns the registered stable-baselines backend, or a
// placeholder reporting why it is unavailable
func New() launcher.SB3Backend {
	lib, err := registered()
	if err != nil {
		return launcher.Unavailable(launcher.SB3, "sb3", err)
	}
	return &Backend{Library: lib, Progress: os.Stdout}
}

// Train implements the launcher.SB3Backend interface. It trains a new
// PPO model on the simulation described by args and saves it.
func (b *Backend) Train(ctx context.Context, args launcher.Args,
	extras []string) error {
	cfg, err := ParseConfig(extras)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	env, err := b.open(ctx, args)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	monitor := wrappers.NewMonitor(env)
	defer closeEnv(monitor)
	if cfg.ReturnsFile != "" {
		monitor.Register(tracker.NewReturn(cfg.ReturnsFile))
	}
	if b.Progress != nil {
		monitor.DisplayProgress(progressbar.NewManualProgressBar(b.Progress,
			50, cfg.TrainSteps), cfg.PPO.NSteps)
	}

	model, err := b.Library.NewPPO(monitor, cfg.PPO)
	if err != nil {
		return fmt.Errorf("train: could not create model: %w", err)
	}

	log.WithFields(logrus.Fields{
		"timesteps": cfg.TrainSteps,
		"log_dir":   cfg.LogDir,
		"num_envs":  env.NumEnvs(),
	}).Info("training")

	if err := learn(ctx, model, cfg); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if err := model.Save(cfg.ModelPath); err != nil {
		return fmt.Errorf("train: could not save model: %w", err)
	}
	log.WithField("path", cfg.ModelPath).Info("saved model")

	if cfg.ReturnsFile != "" {
		if err := monitor.Save(); err != nil {
			return fmt.Errorf("train: could not save returns: %w", err)
		}
	}
	return nil
}

// Evaluate implements the launcher.SB3Backend interface. It loads the
// model at args.LoadSB3 and runs it on the simulation described by
// args.
func (b *Backend) Evaluate(ctx context.Context, args launcher.Args,
	extras []string) error {
	cfg, err := ParseConfig(extras)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	env, err := b.open(ctx, args)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	monitor := wrappers.NewMonitor(env)
	defer closeEnv(monitor)

	model, err := b.Library.LoadPPO(args.LoadSB3, monitor)
	if err != nil {
		return fmt.Errorf("evaluate: could not load model %q: %w",
			args.LoadSB3, err)
	}

	log.WithFields(logrus.Fields{
		"model":     args.LoadSB3,
		"timesteps": cfg.EvalSteps,
	}).Info("evaluating")

	if err := model.Learn(ctx, cfg.EvalSteps); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	log.WithField("episodes", monitor.Episodes()).Info("evaluation finished")
	return nil
}

func (b *Backend) open(ctx context.Context,
	args launcher.Args) (*vecenv.StableBaselines, error) {
	if b.Connector == nil {
		return vecenv.Open(ctx, args.EnvConfig())
	}
	return vecenv.New(ctx, b.Connector, args.EnvConfig())
}

func closeEnv(env vecenv.VecEnv) {
	log.Info("closing env")
	if err := env.Close(); err != nil {
		log.WithError(err).Warn("could not close env")
	}
}

// learn trains model for cfg.TrainSteps steps, saving a checkpoint
// every cfg.CheckpointEvery steps
func learn(ctx context.Context, model Model, cfg Config) error {
	if cfg.CheckpointEvery == 0 {
		return model.Learn(ctx, cfg.TrainSteps)
	}

	filename := checkpointer.FilenameEnumerator(0, cfg.ModelPath, "")
	if cfg.TimestampCheckpoints {
		filename = checkpointer.FileTimer(cfg.ModelPath, "")
	}
	ckpt, err := checkpointer.NewNStep(cfg.CheckpointEvery, model, filename)
	if err != nil {
		return err
	}

	for learned := 0; learned < cfg.TrainSteps; {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk := ckpt.Interval()
		if remaining := cfg.TrainSteps - learned; remaining < chunk {
			chunk = remaining
		}
		if err := model.Learn(ctx, chunk); err != nil {
			return err
		}
		learned += chunk

		if err := ckpt.Checkpoint(learned); err != nil {
			return err
		}
	}
	return nil
}
