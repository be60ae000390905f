// Package sb3 implements the stable-baselines training backend of the
// launcher. The RL algorithms themselves are provided by a Library
// registered with Register.
package sb3

import (
	"context"
	"errors"
	"sync"

	"github.com/samuelfneumann/godotrl/environment/vecenv"
)

// Model is a policy trained by a Library
type Model interface {
	// Learn trains the model for the given number of environment steps
	Learn(ctx context.Context, steps int) error

	// Save saves the model at path
	Save(path string) error
}

// Library provides the PPO algorithm of a stable-baselines style
// library
type Library interface {
	// Probe returns an error if the library cannot be used
	Probe() error

	NewPPO(env vecenv.VecEnv, cfg PPOConfig) (Model, error)
	LoadPPO(path string, env vecenv.VecEnv) (Model, error)
}

var errNoLibrary = errors.New("no stable-baselines library registered")

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
