package rllib_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/godotrl/backend/rllib"
	"github.com/samuelfneumann/godotrl/environment/envtest"
	"github.com/samuelfneumann/godotrl/environment/vecenv"
	"github.com/samuelfneumann/godotrl/launcher"
)

type library struct {
	cfg rllib.Config
	err error
}

func (l *library) Probe() error { return nil }

func (l *library) Tune(ctx context.Context, cfg rllib.Config,
	envs vecenv.Factory) error {
	l.cfg = cfg
	if l.err != nil {
		return l.err
	}
	env, err := envs(ctx, 0)
	if err != nil {
		return err
	}
	return env.Close()
}

func TestTrain(t *testing.T) {
	sim := envtest.NewSimulation(16, map[string]int{"obs": 4})
	conn := &envtest.Connector{Sim: sim}
	lib := &library{}
	b := &rllib.Backend{Library: lib, Connector: conn}

	args := launcher.NewArgs()
	args.Trainer = launcher.RLlib
	args.ConfigFile = "testdata/ppo_test.yaml"
	args.EnvPath = "game.x86_64"

	require.NoError(t, b.Train(context.Background(), args, []string{"--x"}))
	assert.Equal(t, "PPO", lib.cfg.Algorithm)
	assert.Equal(t, "game", lib.cfg.Name)

	require.Len(t, conn.Configs, 1)
	assert.Equal(t, "game.x86_64", conn.Configs[0].EnvPath)
	assert.Equal(t, "godot", conn.Configs[0].Connector)
	assert.Equal(t, 1, sim.Closes)
}

func TestTrainErrors(t *testing.T) {
	lib := &library{err: errors.New("tune failed")}
	b := &rllib.Backend{Library: lib, Connector: &envtest.Connector{}}

	args := launcher.NewArgs()
	args.ConfigFile = "testdata/missing.yaml"
	assert.Error(t, b.Train(context.Background(), args, nil))

	args.ConfigFile = "testdata/ppo_test.yaml"
	assert.ErrorIs(t, b.Train(context.Background(), args, nil), lib.err)
}

func TestNewUnregistered(t *testing.T) {
	_, ok := rllib.New().(*launcher.Placeholder)
	assert.True(t, ok)
}
