package rllib

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/vecenv"
	"github.com/samuelfneumann/godotrl/launcher"
)

var log = logrus.WithField("component", "rllib")

// Backend runs rllib experiments on simulations
type Backend struct {
	Library Library

	// Connector opens the simulations. If nil, the Connector registered
	// under the experiment's env name is used.
	Connector environment.Connector
}

// New returns the registered rllib backend, or a placeholder reporting
// why it is unavailable
func New() launcher.RLlibBackend {
	lib, err := registered()
	if err != nil {
		return launcher.Unavailable(launcher.RLlib, "rllib", err)
	}
	return &Backend{Library: lib}
}

// Train implements the launcher.RLlibBackend interface. The experiment
// is read from args.ConfigFile and overridden by the launcher options.
// Extras are not used by the rllib backend.
func (b *Backend) Train(ctx context.Context, args launcher.Args,
	extras []string) error {
	cfg, err := Load(args.ConfigFile)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	cfg.Override(args)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("train: invalid config file %v: %w",
			args.ConfigFile, err)
	}

	if len(extras) > 0 {
		log.WithField("extras", extras).Warn("ignoring extra arguments")
	}
	log.WithFields(logrus.Fields{
		"name":        cfg.Name,
		"algorithm":   cfg.Algorithm,
		"num_workers": cfg.Config.NumWorkers,
		"restore":     cfg.Restore,
	}).Info("training")

	envs := vecenv.NewFactory(b.Connector, cfg.EnvConfig())
	if err := b.Library.Tune(ctx, cfg, envs); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	return nil
}
