// Package cmd implements the gdrl command line interface
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/godotrl/backend/rllib"
	"github.com/samuelfneumann/godotrl/backend/sb3"
	"github.com/samuelfneumann/godotrl/backend/sf"
	"github.com/samuelfneumann/godotrl/launcher"
)

const envPrefix = "GDRL_"

const (
	trainerKey        = "trainer"
	envPathKey        = "env_path"
	configFileKey     = "config_file"
	restoreKey        = "restore"
	evalKey           = "eval"
	speedupKey        = "speedup"
	exportKey         = "export"
	numGPUsKey        = "num_gpus"
	experimentNameKey = "experiment_name"
	vizKey            = "viz"
	loadSB3Key        = "load_sb3"
	helpKey           = "help"

	logLevelKey  = "log_level"
	logFormatKey = "log_format"
)

func envName(key string) string {
	return envPrefix + strings.ToUpper(key)
}

// newRootCmd returns the gdrl command dispatching to the backends
// returned by backends
func newRootCmd(backends func() launcher.Backends) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "gdrl",
		Short: "Train agents in Godot simulations",
		Long: `Train agents in Godot simulations with one of several RL libraries.

With the Godot editor open, run gdrl and press PLAY in the editor to
train interactively. Training can be stopped with CTRL+C or by pressing
STOP in the editor. To train with an exported binary, give its path
with --env_path.

Arguments not listed below are forwarded to the selected trainer.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, rawArgs []string) error {
			known, extras := splitArgs(cmd.Flags(), rawArgs)
			if err := cmd.Flags().Parse(known); err != nil {
				return err
			}
			if help, _ := cmd.Flags().GetBool(helpKey); help {
				return cmd.Help()
			}

			if err := configureLog(v); err != nil {
				return err
			}

			return launcher.Dispatch(cmd.Context(), argsFrom(v), extras,
				backends())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	v.SetDefault(trainerKey, string(launcher.DefaultTrainer))
	_ = v.BindEnv(trainerKey, envName(trainerKey))
	flags.String(trainerKey, v.GetString(trainerKey),
		fmt.Sprintf("framework to use, one of %v", launcher.Trainers))

	_ = v.BindEnv(envPathKey, envName(envPathKey))
	flags.String(envPathKey, "", "Godot binary to use")

	v.SetDefault(configFileKey, launcher.DefaultConfigFile)
	_ = v.BindEnv(configFileKey, envName(configFileKey))
	flags.String(configFileKey, v.GetString(configFileKey),
		"the yaml config file (used by rllib)")

	_ = v.BindEnv(restoreKey, envName(restoreKey))
	flags.String(restoreKey, "", "the location of a checkpoint to restore from")

	_ = v.BindEnv(evalKey, envName(evalKey))
	flags.Bool(evalKey, false, "whether to eval the model")

	v.SetDefault(speedupKey, launcher.DefaultSpeedup)
	_ = v.BindEnv(speedupKey, envName(speedupKey))
	flags.Int(speedupKey, v.GetInt(speedupKey),
		"whether to speed up the physics in the env")

	_ = v.BindEnv(exportKey, envName(exportKey))
	flags.Bool(exportKey, false, "whether to export the model")

	_ = v.BindEnv(numGPUsKey, envName(numGPUsKey))
	flags.Int(numGPUsKey, 0, "number of GPUs to use [only for rllib]")

	_ = v.BindEnv(experimentNameKey, envName(experimentNameKey))
	flags.String(experimentNameKey, "",
		"the name of the experiment [only for rllib]")

	_ = v.BindEnv(vizKey, envName(vizKey))
	flags.Bool(vizKey, false, "whether to visualize one process")

	_ = v.BindEnv(loadSB3Key, envName(loadSB3Key))
	flags.String(loadSB3Key, "", "the location of a sb3 model to load")

	flags.BoolP(helpKey, "h", false, "help for gdrl")

	// Only configurable from the environment
	v.SetDefault(logLevelKey, logrus.InfoLevel.String())
	_ = v.BindEnv(logLevelKey, envName(logLevelKey))
	v.SetDefault(logFormatKey, "text")
	_ = v.BindEnv(logFormatKey, envName(logFormatKey))

	_ = v.BindPFlags(flags)

	return cmd
}

// argsFrom returns the launcher options held by v
func argsFrom(v *viper.Viper) launcher.Args {
	args := launcher.Args{
		Trainer:        launcher.Trainer(v.GetString(trainerKey)),
		EnvPath:        v.GetString(envPathKey),
		ConfigFile:     v.GetString(configFileKey),
		Restore:        v.GetString(restoreKey),
		Eval:           v.GetBool(evalKey),
		Speedup:        v.GetInt(speedupKey),
		Export:         v.GetBool(exportKey),
		Viz:            v.GetBool(vizKey),
		ExperimentName: v.GetString(experimentNameKey),
		LoadSB3:        v.GetString(loadSB3Key),
	}

	if v.IsSet(numGPUsKey) {
		numGPUs := v.GetInt(numGPUsKey)
		args.NumGPUs = &numGPUs
	}
	return args
}

func defaultBackends() launcher.Backends {
	return launcher.Backends{
		RLlib: rllib.New(),
		SB3:   sb3.New(),
		SF:    sf.New(),
	}
}

// Execute runs the gdrl command with the arguments of the process. It
// is called by main.main().
func Execute() {
	ctx := contextWithUserTermination(context.Background())
	if err := newRootCmd(defaultBackends).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
