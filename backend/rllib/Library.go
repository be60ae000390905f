// Package rllib implements the rllib training backend of the launcher.
// Experiments are described by a YAML file and run by a Library
// registered with Register.
package rllib

import (
	"context"
	"errors"
	"sync"

	"github.com/samuelfneumann/godotrl/environment/vecenv"
)

// Library runs tuned experiments of an rllib style library. The
// library opens one VecEnv per rollout worker with the given factory and
// owns the environments it opens.
type Library interface {
	// Probe returns an error if the library cannot be used
	Probe() error

	Tune(ctx context.Context, cfg Config, envs vecenv.Factory) error
}

var errNoLibrary = errors.New("no rllib library registered")

var (
	libraryMu sync.RWMutex
	library   Library
)

// Register installs lib as the Library used by New. It panics if lib
// is nil or a Library was already registered.
func Register(lib Library) {
	libraryMu.Lock()
	defer libraryMu.Unlock()

	if lib == nil {
		panic("register: library is nil")
	}
	if library != nil {
		panic("register: library registered twice")
	}
	library = lib
}

func registered() (Library, error) {
	libraryMu.RLock()
	defer libraryMu.RUnlock()

	if library == nil {
		return nil, errNoLibrary
	}
	if err := library.Probe(); err != nil {
		return nil, err
	}
	return library, nil
}
