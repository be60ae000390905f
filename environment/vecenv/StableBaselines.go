package vecenv

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/envconfig"
)

var log = logrus.WithField("component", "vecenv")

// TruncatedInfoKey is set to true in the info of an instance whose
// episode was cut short rather than terminated
const TruncatedInfoKey = "TimeLimit.truncated"

// StableBaselines adapts a Simulation to the VecEnv interface of a
// stable-baselines style library. The library models a single terminal
// signal, so an instance is reported done when its episode either
// terminated or was truncated. Truncations are additionally reported
// under TruncatedInfoKey in the instance's info.
//
// StableBaselines holds the only handle to its Simulation from
// construction until Close.
type StableBaselines struct {
	sim    environment.Simulation
	closed bool
}

// New connects to a simulation using the Connector c and returns it
// wrapped in a StableBaselines adapter. If the simulation's action
// space is a tuple of other than exactly one space, the connection is
// closed and an error is returned.
func New(ctx context.Context, c environment.Connector,
	cfg envconfig.Config) (*StableBaselines, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new: invalid configuration: %w", err)
	}

	sim, err := c.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new: could not connect to simulation: %w",
			err)
	}

	adapter, err := NewFromSimulation(sim)
	if err != nil {
		if closeErr := sim.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("could not close rejected simulation")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"env_path":    cfg.EnvPath,
		"interactive": cfg.Interactive(),
		"num_envs":    sim.NumEnvs(),
	}).Debug("connected to simulation")

	return adapter, nil
}

// NewFromSimulation wraps an open Simulation in a StableBaselines
// adapter. The caller keeps ownership of sim if an error is returned.
func NewFromSimulation(sim environment.Simulation) (*StableBaselines,
	error) {
	if err := checkActionSpace(sim.ActionSpace()); err != nil {
		return nil, err
	}
	return &StableBaselines{sim: sim}, nil
}

func checkActionSpace(space environment.Space) error {
	if tuple, ok := space.(*environment.TupleSpace); ok {
		if len(tuple.Spaces) != 1 {
			return &Error{Op: "new", Err: fmt.Errorf("%w, this env contains "+
				"multiple spaces %v", errMultipleActionSpaces, tuple)}
		}
	}
	return nil
}

// Reset implements the VecEnv interface
func (s *StableBaselines) Reset() (Batch, error) {
	if s.closed {
		return nil, &Error{Op: "reset", Err: errClosed}
	}

	obs, _, err := s.sim.Reset()
	if err != nil {
		return nil, fmt.Errorf("reset: could not reset simulation: %w", err)
	}
	if len(obs) != s.sim.NumEnvs() {
		return nil, &Error{Op: "reset", Err: fmt.Errorf("%w: expected %v "+
			"observations but got %v", errBatch, s.sim.NumEnvs(), len(obs))}
	}

	return ListToDict(obs)
}

// Step implements the VecEnv interface
func (s *StableBaselines) Step(actions mat.Matrix) (Batch, *mat.VecDense,
	[]bool, []environment.Info, error) {
	if s.closed {
		return nil, nil, nil, nil, &Error{Op: "step", Err: errClosed}
	}

	n := s.sim.NumEnvs()
	if r, _ := actions.Dims(); r != n {
		return nil, nil, nil, nil, &Error{Op: "step", Err: fmt.Errorf("%w: "+
			"expected %v actions but got %v", errBatch, n, r)}
	}

	result, err := s.sim.Step(rows(actions))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("step: could not step "+
			"simulation: %w", err)
	}
	if err := checkLengths(result, n); err != nil {
		return nil, nil, nil, nil, err
	}

	obs, err := ListToDict(result.Observations)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	rewards := mat.NewVecDense(n, append([]float64(nil), result.Rewards...))
	dones := make([]bool, n)
	infos := make([]environment.Info, n)
	for i := 0; i < n; i++ {
		dones[i] = result.Terminated[i] || result.Truncated[i]

		infos[i] = environment.Info{}
		if result.Infos != nil {
			for key, value := range result.Infos[i] {
				infos[i][key] = value
			}
		}
		if result.Truncated[i] && !result.Terminated[i] {
			infos[i][TruncatedInfoKey] = true
		}
	}

	return obs, rewards, dones, infos, nil
}

type fieldLength struct {
	name   string
	length int
}

// checkLengths returns an error naming the first result field, in
// field order, which does not hold n values
func checkLengths(result environment.StepResult, n int) error {
	lengths := []fieldLength{
		{"observations", len(result.Observations)},
		{"rewards", len(result.Rewards)},
		{"terminated", len(result.Terminated)},
		{"truncated", len(result.Truncated)},
	}
	if result.Infos != nil {
		lengths = append(lengths, fieldLength{"infos", len(result.Infos)})
	}

	for _, field := range lengths {
		if field.length != n {
			return &Error{Op: "step", Err: fmt.Errorf("%w: expected %v %v "+
				"but got %v", errBatch, n, field.name, field.length)}
		}
	}
	return nil
}

// Close releases the simulation connection. Calling Close on a closed
// StableBaselines has no effect.
func (s *StableBaselines) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.sim.Close(); err != nil {
		return fmt.Errorf("close: could not close simulation: %w", err)
	}
	log.Debug("closed simulation")
	return nil
}

// ObservationSpace returns the observation space of a single instance
func (s *StableBaselines) ObservationSpace() environment.Space {
	return s.sim.ObservationSpace()
}

// ActionSpace returns the action space of a single instance
func (s *StableBaselines) ActionSpace() environment.Space {
	return s.sim.ActionSpace()
}

// NumEnvs returns the number of parallel instances
func (s *StableBaselines) NumEnvs() int {
	return s.sim.NumEnvs()
}

// Seed implements the VecEnv interface. This method is not supported.
func (s *StableBaselines) Seed(uint64) error {
	return &Error{Op: "seed", Err: errNotSupported}
}

// GetAttr implements the VecEnv interface. This method is not
// supported.
func (s *StableBaselines) GetAttr(string, ...int) ([]interface{}, error) {
	return nil, &Error{Op: "getAttr", Err: errNotSupported}
}

// SetAttr implements the VecEnv interface. This method is not
// supported.
func (s *StableBaselines) SetAttr(string, interface{}, ...int) error {
	return &Error{Op: "setAttr", Err: errNotSupported}
}

// EnvMethod implements the VecEnv interface. This method is not
// supported.
func (s *StableBaselines) EnvMethod(string, []interface{}, ...int) (
	[]interface{}, error) {
	return nil, &Error{Op: "envMethod", Err: errNotSupported}
}

// StepAsync implements the VecEnv interface. This method is not
// supported.
func (s *StableBaselines) StepAsync(mat.Matrix) error {
	return &Error{Op: "stepAsync", Err: errNotSupported}
}

// StepWait implements the VecEnv interface. This method is not
// supported.
func (s *StableBaselines) StepWait() (Batch, *mat.VecDense, []bool,
	[]environment.Info, error) {
	return nil, nil, nil, nil, &Error{Op: "stepWait", Err: errNotSupported}
}

// EnvIsWrapped implements the VecEnv interface. This method is not
// supported.
func (s *StableBaselines) EnvIsWrapped(string, ...int) ([]bool, error) {
	return nil, &Error{Op: "envIsWrapped", Err: errNotSupported}
}

// Open connects to a simulation using the Connector registered under
// the configuration's connector name. See New.
func Open(ctx context.Context, cfg envconfig.Config) (*StableBaselines,
	error) {
	return New(ctx, environment.ConnectorFunc(environment.Connect), cfg)
}
