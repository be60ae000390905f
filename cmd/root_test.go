package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/godotrl/launcher"
)

type call struct {
	entry  string
	args   launcher.Args
	extras []string
}

type backend struct {
	calls []call
}

func (b *backend) record(entry string, args launcher.Args, extras []string) error {
	b.calls = append(b.calls, call{entry: entry, args: args, extras: extras})
	return nil
}

func (b *backend) Train(_ context.Context, args launcher.Args, extras []string) error {
	return b.record("train", args, extras)
}

func (b *backend) Evaluate(_ context.Context, args launcher.Args, extras []string) error {
	return b.record("evaluate", args, extras)
}

func (b *backend) Enjoy(_ context.Context, args launcher.Args, extras []string) error {
	return b.record("enjoy", args, extras)
}

func execute(t *testing.T, args ...string) (*backend, string, error) {
	t.Helper()
	b := &backend{}
	cmd := newRootCmd(func() launcher.Backends {
		return launcher.Backends{RLlib: b, SB3: b, SF: b}
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return b, out.String(), err
}

func TestDefaults(t *testing.T) {
	b, _, err := execute(t)
	require.NoError(t, err)
	require.Len(t, b.calls, 1)

	c := b.calls[0]
	assert.Equal(t, "train", c.entry)
	assert.Equal(t, launcher.NewArgs(), c.args)
	assert.Empty(t, c.extras)
}

func TestAllFlags(t *testing.T) {
	b, _, err := execute(t, "--trainer", "rllib", "--env_path", "game.x86_64",
		"--config_file=exp.yaml", "--restore", "ckpt", "--eval", "--speedup",
		"8", "--export", "--num_gpus", "0", "--experiment_name", "exp",
		"--viz", "--load_sb3", "model.zip")
	require.NoError(t, err)
	require.Len(t, b.calls, 1)

	gpus := 0
	assert.Equal(t, launcher.Args{
		Trainer:        launcher.RLlib,
		EnvPath:        "game.x86_64",
		ConfigFile:     "exp.yaml",
		Restore:        "ckpt",
		Eval:           true,
		Speedup:        8,
		Export:         true,
		NumGPUs:        &gpus,
		Viz:            true,
		ExperimentName: "exp",
		LoadSB3:        "model.zip",
	}, b.calls[0].args)
}

func TestExtrasForwarded(t *testing.T) {
	b, _, err := execute(t, "--trainer", "sf", "--eval", "--num_workers", "4",
		"positional", "--seed=3")
	require.NoError(t, err)
	require.Len(t, b.calls, 1)
	assert.Equal(t, "enjoy", b.calls[0].entry)
	assert.Equal(t, []string{"--num_workers", "4", "positional", "--seed=3"},
		b.calls[0].extras)
}

func TestLoadSB3SelectsEvaluate(t *testing.T) {
	b, _, err := execute(t, "--load_sb3", "model.zip", "--eval")
	require.NoError(t, err)
	require.Len(t, b.calls, 1)
	assert.Equal(t, "evaluate", b.calls[0].entry)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("GDRL_TRAINER", "sf")
	t.Setenv("GDRL_SPEEDUP", "4")
	t.Setenv("GDRL_NUM_GPUS", "2")

	b, _, err := execute(t, "--speedup", "16")
	require.NoError(t, err)
	require.Len(t, b.calls, 1)

	args := b.calls[0].args
	assert.Equal(t, launcher.SF, args.Trainer)
	assert.Equal(t, 16, args.Speedup)
	require.NotNil(t, args.NumGPUs)
	assert.Equal(t, 2, *args.NumGPUs)
}

func TestInvalidTrainer(t *testing.T) {
	b, _, err := execute(t, "--trainer", "dqn")
	assert.ErrorIs(t, err, launcher.ErrInvalidTrainer)
	assert.Empty(t, b.calls)
}

func TestInvalidFlagValue(t *testing.T) {
	_, _, err := execute(t, "--speedup", "fast")
	assert.Error(t, err)
}

func TestHelp(t *testing.T) {
	for _, flag := range []string{"--help", "-h"} {
		b, out, err := execute(t, flag)
		require.NoError(t, err)
		assert.Empty(t, b.calls)
		assert.Contains(t, out, "--load_sb3")
		assert.Contains(t, out, "forwarded to the selected trainer")
	}
}

func TestLogConfiguration(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	t.Setenv("GDRL_LOG_LEVEL", "debug")
	t.Setenv("GDRL_LOG_FORMAT", "json")
	_, _, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	t.Setenv("GDRL_LOG_LEVEL", "off")
	_, _, err = execute(t)
	require.NoError(t, err)
	assert.Equal(t, logrus.PanicLevel, logrus.GetLevel())

	t.Setenv("GDRL_LOG_LEVEL", "loud")
	b, _, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GDRL_LOG_LEVEL")
	assert.Empty(t, b.calls)

	t.Setenv("GDRL_LOG_LEVEL", "info")
	t.Setenv("GDRL_LOG_FORMAT", "xml")
	_, _, err = execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[json text]")
}
