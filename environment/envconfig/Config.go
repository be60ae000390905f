// Package envconfig provides configuration structs for connecting to
// simulations with default connection parameters. Configurations in
// this package are JSON serializable.
package envconfig

import "fmt"

// Default connection parameters
const (
	DefaultConnector = "godot"
	DefaultPort      = 11008
	DefaultSpeedup   = 1
)

// Config implements a specific configuration of a connection to a
// simulation.
type Config struct {
	// Connector is the name of the registered environment.Connector
	// used to open the simulation
	Connector string

	// EnvPath is the simulation binary to launch. An empty path
	// attaches to an already running interactive instance.
	EnvPath string

	ShowWindow   bool
	Speedup      int // Simulation tick-rate multiplier
	Port         int
	Seed         uint64
	ActionRepeat int // Zero lets the simulation decide
}

// NewConfig returns a new Config for the given simulation binary with
// default connection parameters
func NewConfig(envPath string, showWindow bool, speedup int) Config {
	return Config{
		Connector:  DefaultConnector,
		EnvPath:    envPath,
		ShowWindow: showWindow,
		Speedup:    speedup,
		Port:       DefaultPort,
	}
}

// Interactive returns whether the Config attaches to an already
// running interactive instance instead of launching a binary
func (c Config) Interactive() bool {
	return c.EnvPath == ""
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c Config) Validate() error {
	if c.Connector == "" {
		return fmt.Errorf("validate: no connector specified")
	}
	if c.Speedup < 1 {
		return fmt.Errorf("validate: speedup must be a positive integer "+
			"but got %v", c.Speedup)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("validate: port %v out of range", c.Port)
	}
	if c.ActionRepeat < 0 {
		return fmt.Errorf("validate: action repeat must be non-negative "+
			"but got %v", c.ActionRepeat)
	}
	return nil
}
