// Package timestep implements timesteps of the agent-environment
// interaction for a single instance of a vectorized environment
package timestep

import (
	"fmt"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep of one instance of a
// vectorized environment
type TimeStep struct {
	StepType
	Env       int // Index of the instance that produced the TimeStep
	Reward    float64
	Number    int // Step number within the episode, First is 0
	Truncated bool
}

// New returns a new TimeStep for instance env
func New(t StepType, env int, r float64, n int) TimeStep {
	return TimeStep{StepType: t, Env: env, Reward: r, Number: n}
}

// First returns whether a TimeStep is the first in an episode
func (t TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Env: %v  |  Type: %v  |  Reward:  %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.Env, t.StepType, t.Reward, t.Number)
}
