package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("trainer", "sb3", "")
	flags.Int("speedup", 1, "")
	flags.Bool("eval", false, "")
	flags.BoolP("help", "h", false, "")
	return flags
}

func TestSplitArgs(t *testing.T) {
	for name, test := range map[string]struct {
		args   []string
		known  []string
		extras []string
	}{
		"empty": {},
		"known only": {
			args:  []string{"--trainer", "sf", "--eval", "--speedup=8"},
			known: []string{"--trainer", "sf", "--eval", "--speedup=8"},
		},
		"unknown flags": {
			args:   []string{"--n_steps", "128", "--trainer=rllib", "--lr=3e-4"},
			known:  []string{"--trainer=rllib"},
			extras: []string{"--n_steps", "128", "--lr=3e-4"},
		},
		"positionals": {
			args:   []string{"run", "--eval", "fast"},
			known:  []string{"--eval"},
			extras: []string{"run", "fast"},
		},
		"value consumed": {
			args:  []string{"--speedup", "-1"},
			known: []string{"--speedup", "-1"},
		},
		"no abbreviation": {
			args:   []string{"--train", "sf", "--ev"},
			extras: []string{"--train", "sf", "--ev"},
		},
		"after separator": {
			args:   []string{"--eval", "--", "--trainer", "sf", "x"},
			known:  []string{"--eval"},
			extras: []string{"--trainer", "sf", "x"},
		},
		"help": {
			args:   []string{"-h", "-x"},
			known:  []string{"-h"},
			extras: []string{"-x"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			known, extras := splitArgs(testFlags(), test.args)
			assert.Equal(t, test.known, known)
			assert.Equal(t, test.extras, extras)
		})
	}
}
