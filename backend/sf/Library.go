// Package sf implements the sample-factory training backend of the
// launcher. Training and enjoyment runs are carried out by a Library
// registered with Register.
package sf

import (
	"context"
	"errors"
	"sync"

	"github.com/samuelfneumann/godotrl/environment/vecenv"
)

// Library provides the training loops of a sample-factory style
// library. The library opens one VecEnv per worker with the given
// factory and owns the environments it opens.
type Library interface {
	// Probe returns an error if the library cannot be used
	Probe() error

	Train(ctx context.Context, cfg Config, envs vecenv.Factory) error
	Enjoy(ctx context.Context, cfg Config, envs vecenv.Factory) error
}

var errNoLibrary = errors.New("no sample-factory library registered")

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
