package tracker

import (
	"fmt"

	ts "github.com/samuelfneumann/godotrl/timestep"
)

// Return tracks and saves the episodic return of every instance of a
// vectorized environment. Episode returns are saved in the order in
// which the episodes finished.
//
// Note: An episode must finish for this Tracker to save its data.
// Episodes which are still running when Save is called are not saved.
type Return struct {
	lastTimeStep   map[int]int
	currentReturn  map[int]float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{
		lastTimeStep:  make(map[int]int),
		currentReturn: make(map[int]float64),
		filename:      filename,
	}
}

// Track tracks the reward seen on a timestep of one instance. By
// calling this method on every timestep of every instance, the Tracker
// accumulates the return of each instance's episode separately.
//
// A First TimeStep starts a new episode for its instance. The return
// of an episode which was interrupted by a reset is discarded.
//
// Track panics if it is called for non-sequential timesteps of the
// same instance.
func (r *Return) Track(step ts.TimeStep) {
	if step.First() {
		delete(r.currentReturn, step.Env)
		delete(r.lastTimeStep, step.Env)
	}

	last, ok := r.lastTimeStep[step.Env]
	if !ok {
		last = -1
	}

	// Ensure that Track is called on sequential timesteps
	if last+1 != step.Number {
		panic(fmt.Sprintf("track: last two timesteps tracked for env %v "+
			"are not sequential: timestep %v --> timestep %v were tracked",
			step.Env, last, step.Number))
	}

	r.currentReturn[step.Env] += step.Reward
	if !step.Last() {
		r.lastTimeStep[step.Env] = step.Number
		return
	}

	// Episode has ended, save the return and begin tracking the
	// return for a new episode
	r.episodeReturns = append(r.episodeReturns, r.currentReturn[step.Env])
	delete(r.currentReturn, step.Env)
	delete(r.lastTimeStep, step.Env)
}

// Returns returns the episodic returns tracked so far
func (r *Return) Returns() []float64 {
	return append([]float64(nil), r.episodeReturns...)
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
