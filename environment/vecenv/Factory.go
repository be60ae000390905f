package vecenv

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/envconfig"
)

// Factory opens the VecEnv used by one worker of a distributed
// training library. Workers are numbered from 0.
type Factory func(ctx context.Context, worker int) (VecEnv, error)

// NewFactory returns a Factory opening simulations with c, or with the
// registered Connector if c is nil. Each worker connects on its own
// port and seed offset from base. Only worker 0 keeps base's window
// setting, every other worker runs headless.
func NewFactory(c environment.Connector, base envconfig.Config) Factory {
	if c == nil {
		c = environment.ConnectorFunc(environment.Connect)
	}

	return func(ctx context.Context, worker int) (VecEnv, error) {
		if worker < 0 {
			return nil, fmt.Errorf("factory: illegal worker index %v", worker)
		}

		cfg := WorkerConfig(base, worker)
		env, err := New(ctx, c, cfg)
		if err != nil {
			return nil, fmt.Errorf("factory: worker %v: %w", worker, err)
		}
		return env, nil
	}
}

// WorkerConfig returns the connection configuration of a worker
func WorkerConfig(base envconfig.Config, worker int) envconfig.Config {
	cfg := base
	cfg.Port = base.Port + worker
	cfg.Seed = base.Seed + uint64(worker)
	cfg.ShowWindow = base.ShowWindow && worker == 0
	return cfg
}
