// Package environment outlines the interfaces and structs needed to
// connect to a batched, multi-instance simulation.
//
// A Simulation runs N parallel instances of a game-engine-driven
// environment and reports every batched quantity as a list with one
// element per instance, in instance order. Observations are reported
// per instance as a mapping from component name (a sensor or camera
// identifier) to its flattened value.
package environment

import (
	"gonum.org/v1/gonum/mat"
)

// Observation is the observation of a single simulation instance. It
// maps each observation component name to the component's flattened
// value. Scalars are stored as a single element.
type Observation map[string][]float64

// Info holds the extra per-instance information reported on each step
type Info map[string]interface{}

// StepResult packages together the results of stepping all instances
// of a Simulation. Each slice has one element per instance.
type StepResult struct {
	Observations []Observation
	Rewards      []float64
	Terminated   []bool
	Truncated    []bool
	Infos        []Info
}

// Simulation implements a connection to N parallel instances of a
// simulation. Calls block until the simulation replies for all
// instances. A Simulation is not safe for concurrent use.
type Simulation interface {
	// Reset resets all instances and returns their first observations
	Reset() ([]Observation, []Info, error)

	// Step takes one step in each instance, actions[i] is the
	// flattened action for instance i
	Step(actions []*mat.VecDense) (StepResult, error)

	// ObservationSpace returns the observation space of one instance
	ObservationSpace() Space

	// ActionSpace returns the action space of one instance
	ActionSpace() Space

	// NumEnvs returns the number of parallel instances N
	NumEnvs() int

	// Close releases the connection to the simulation
	Close() error
}
