// Package envtest provides an in-memory Simulation for testing code
// which drives batched simulations.
package envtest

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/envconfig"
)

// Simulation is a deterministic multi-instance environment.Simulation.
//
// Element j of component c for instance i after t steps in the current
// episode has value 1000*i + 10*t + j + offset(c), where offset(c) is
// 100 times the index of c in sorted key order. Instance i receives a
// reward of i+1 on every step.
type Simulation struct {
	N          int
	Components map[string]int // Component name -> element count

	// EpisodeLength terminates an instance's episode after this many
	// steps, TruncateAt truncates it. Zero disables either.
	EpisodeLength int
	TruncateAt    int

	ActSpace environment.Space
	ObsSpace environment.Space

	ResetErr error
	StepErr  error

	// Recorded calls
	Resets      int
	Steps       int
	Closes      int
	LastActions []*mat.VecDense

	t []int
}

// NewSimulation returns a new Simulation with n instances and the
// given observation components. The action space is a 2-element Box
// in [-1, 1].
func NewSimulation(n int, components map[string]int) *Simulation {
	spaces := make(map[string]environment.Space, len(components))
	for name, size := range components {
		low := make([]float64, size)
		high := make([]float64, size)
		for i := range high {
			high[i] = math.Inf(1)
		}
		box, err := environment.NewBox(low, high)
		if err != nil {
			panic(fmt.Sprintf("newSimulation: %v", err))
		}
		spaces[name] = box
	}
	obsSpace, err := environment.NewDict(spaces)
	if err != nil {
		panic(fmt.Sprintf("newSimulation: %v", err))
	}
	actSpace, err := environment.NewBox([]float64{-1, -1}, []float64{1, 1})
	if err != nil {
		panic(fmt.Sprintf("newSimulation: %v", err))
	}

	return &Simulation{
		N:          n,
		Components: components,
		ActSpace:   actSpace,
		ObsSpace:   obsSpace,
		t:          make([]int, n),
	}
}

// Value returns the element j of component name for instance i after
// t steps in the episode
func (s *Simulation) Value(name string, i, t, j int) float64 {
	return float64(1000*i+10*t+j) + 100*float64(s.keyIndex(name))
}

// Reset implements the environment.Simulation interface
func (s *Simulation) Reset() ([]environment.Observation, []environment.Info,
	error) {
	if s.ResetErr != nil {
		return nil, nil, s.ResetErr
	}
	s.Resets++

	obs := make([]environment.Observation, s.N)
	infos := make([]environment.Info, s.N)
	for i := range obs {
		s.t[i] = 0
		obs[i] = s.observation(i)
		infos[i] = environment.Info{}
	}
	return obs, infos, nil
}

// Step implements the environment.Simulation interface. Finished
// instances are reset automatically, their returned observation is the
// first of the next episode.
func (s *Simulation) Step(actions []*mat.VecDense) (environment.StepResult,
	error) {
	if s.StepErr != nil {
		return environment.StepResult{}, s.StepErr
	}
	if len(actions) != s.N {
		return environment.StepResult{}, fmt.Errorf("step: expected %v "+
			"actions but got %v", s.N, len(actions))
	}
	s.Steps++
	s.LastActions = actions

	result := environment.StepResult{
		Observations: make([]environment.Observation, s.N),
		Rewards:      make([]float64, s.N),
		Terminated:   make([]bool, s.N),
		Truncated:    make([]bool, s.N),
		Infos:        make([]environment.Info, s.N),
	}
	for i := 0; i < s.N; i++ {
		s.t[i]++
		result.Rewards[i] = float64(i + 1)
		result.Terminated[i] = s.EpisodeLength > 0 && s.t[i] >= s.EpisodeLength
		result.Truncated[i] = s.TruncateAt > 0 && s.t[i] >= s.TruncateAt
		result.Infos[i] = environment.Info{}

		if result.Terminated[i] || result.Truncated[i] {
			s.t[i] = 0
		}
		result.Observations[i] = s.observation(i)
	}
	return result, nil
}

// ObservationSpace implements the environment.Simulation interface
func (s *Simulation) ObservationSpace() environment.Space {
	return s.ObsSpace
}

// ActionSpace implements the environment.Simulation interface
func (s *Simulation) ActionSpace() environment.Space {
	return s.ActSpace
}

// NumEnvs implements the environment.Simulation interface
func (s *Simulation) NumEnvs() int {
	return s.N
}

// Close implements the environment.Simulation interface
func (s *Simulation) Close() error {
	s.Closes++
	return nil
}

func (s *Simulation) observation(i int) environment.Observation {
	obs := make(environment.Observation, len(s.Components))
	for name, size := range s.Components {
		value := make([]float64, size)
		for j := range value {
			value[j] = s.Value(name, i, s.t[i], j)
		}
		obs[name] = value
	}
	return obs
}

func (s *Simulation) keyIndex(name string) int {
	keys := make([]string, 0, len(s.Components))
	for key := range s.Components {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return sort.SearchStrings(keys, name)
}

// Connector is an environment.Connector which always connects to the
// same Simulation and records the configurations it was called with
type Connector struct {
	Sim     environment.Simulation
	Err     error
	Configs []envconfig.Config
}

// Connect implements the environment.Connector interface
func (c *Connector) Connect(_ context.Context,
	cfg envconfig.Config) (environment.Simulation, error) {
	c.Configs = append(c.Configs, cfg)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Sim, nil
}
