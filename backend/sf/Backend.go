package sf

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/vecenv"
	"github.com/samuelfneumann/godotrl/launcher"
)

var log = logrus.WithField("component", "sf")

// Backend runs sample-factory experiments on simulations
type Backend struct {
	Library Library

	// Connector opens the simulations. If nil, the Connector registered
	// under the configured connector name is used.
	Connector environment.Connector
}

// New returns the registered sample-factory backend, or a placeholder
// reporting why it is unavailable
func New() launcher.SFBackend {
	lib, err := registered()
	if err != nil {
		return launcher.Unavailable(launcher.SF, "sf", err)
	}
	return &Backend{Library: lib}
}

// Train implements the launcher.SFBackend interface
func (b *Backend) Train(ctx context.Context, args launcher.Args,
	extras []string) error {
	cfg, err := ParseConfig(args.ExperimentName, extras)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	b.logRun("training", cfg)

	if err := b.Library.Train(ctx, cfg, b.factory(args, cfg)); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	return nil
}

// Enjoy implements the launcher.SFBackend interface. It runs the
// trained policy of the named experiment.
func (b *Backend) Enjoy(ctx context.Context, args launcher.Args,
	extras []string) error {
	cfg, err := ParseEnjoyConfig(args.ExperimentName, extras)
	if err != nil {
		return fmt.Errorf("enjoy: %w", err)
	}
	b.logRun("enjoying", cfg)

	if err := b.Library.Enjoy(ctx, cfg, b.factory(args, cfg)); err != nil {
		return fmt.Errorf("enjoy: %w", err)
	}
	return nil
}

func (b *Backend) factory(args launcher.Args, cfg Config) vecenv.Factory {
	base := args.EnvConfig()
	base.Seed = cfg.Seed
	return vecenv.NewFactory(b.Connector, base)
}

func (b *Backend) logRun(msg string, cfg Config) {
	log.WithFields(logrus.Fields{
		"experiment":  cfg.Experiment,
		"train_dir":   cfg.TrainDir,
		"num_workers": cfg.NumWorkers,
	}).Info(msg)
}
