// Package wrappers implements wrappers of vectorized environments
package wrappers

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/vecenv"
	"github.com/samuelfneumann/godotrl/experiment/tracker"
	ts "github.com/samuelfneumann/godotrl/timestep"
	"github.com/samuelfneumann/godotrl/utils/progressbar"
)

var log = logrus.WithField("component", "wrappers")

// Monitor wraps a vecenv.VecEnv and tracks the return and length of
// the episodes of each instance. Every TimeStep of every instance is
// sent to the registered trackers. Monitor assumes the wrapped
// environment resets finished instances automatically, so that the
// observation returned for a done instance is the first of its next
// episode.
//
// Monitor itself implements the vecenv.VecEnv interface.
type Monitor struct {
	vecenv.VecEnv

	trackers []tracker.Tracker
	bar      *progressbar.ManualProgressBar
	every    int

	returns  []float64
	lengths  []int
	episodes int
	steps    int
}

// NewMonitor returns a new Monitor wrapping env which sends the
// TimeSteps of all instances to the trackers t
func NewMonitor(env vecenv.VecEnv, t ...tracker.Tracker) *Monitor {
	return &Monitor{
		VecEnv:   env,
		trackers: t,
		returns:  make([]float64, env.NumEnvs()),
		lengths:  make([]int, env.NumEnvs()),
	}
}

// Register registers a new tracker.Tracker with the Monitor
func (m *Monitor) Register(t tracker.Tracker) {
	m.trackers = append(m.trackers, t)
}

// DisplayProgress makes the Monitor advance bar by one for every step
// of every instance and display it every n calls to Step
func (m *Monitor) DisplayProgress(bar *progressbar.ManualProgressBar, n int) {
	if n < 1 {
		n = 1
	}
	m.bar = bar
	m.every = n
}

// Reset resets the wrapped environment and starts a new episode in
// every instance. Episodes still running are dropped without being
// counted.
func (m *Monitor) Reset() (vecenv.Batch, error) {
	obs, err := m.VecEnv.Reset()
	if err != nil {
		return nil, err
	}

	for i := range m.returns {
		m.returns[i] = 0
		m.lengths[i] = 0
		m.track(ts.New(ts.First, i, 0, 0))
	}
	return obs, nil
}

// Step steps the wrapped environment and tracks the resulting
// TimeStep of every instance
func (m *Monitor) Step(actions mat.Matrix) (vecenv.Batch, *mat.VecDense,
	[]bool, []environment.Info, error) {
	obs, rewards, dones, infos, err := m.VecEnv.Step(actions)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	m.steps++

	for i, done := range dones {
		reward := rewards.AtVec(i)
		m.returns[i] += reward
		m.lengths[i]++

		stepType := ts.Mid
		if done {
			stepType = ts.Last
		}
		step := ts.New(stepType, i, reward, m.lengths[i])
		if i < len(infos) {
			if truncated, ok := infos[i][vecenv.TruncatedInfoKey].(bool); ok {
				step.Truncated = truncated
			}
		}
		m.track(step)

		if done {
			m.episodes++
			log.WithFields(logrus.Fields{
				"env":       i,
				"return":    m.returns[i],
				"length":    m.lengths[i],
				"truncated": step.Truncated,
				"episodes":  m.episodes,
			}).Debug("episode finished")

			m.returns[i] = 0
			m.lengths[i] = 0
			m.track(ts.New(ts.First, i, 0, 0))
		}
	}

	if m.bar != nil {
		m.bar.Add(len(dones))
		if m.steps%m.every == 0 {
			m.bar.Display()
		}
	}

	return obs, rewards, dones, infos, nil
}

// Episodes returns the number of episodes finished across all
// instances
func (m *Monitor) Episodes() int {
	return m.episodes
}

// Save saves the data of all registered trackers
func (m *Monitor) Save() error {
	for _, t := range m.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the progress bar, if any, and the wrapped environment
func (m *Monitor) Close() error {
	if m.bar != nil {
		m.bar.Close()
		m.bar = nil
	}
	return m.VecEnv.Close()
}

// track tracks the current timestep by caching its data in each tracker
func (m *Monitor) track(t ts.TimeStep) {
	for _, tr := range m.trackers {
		tr.Track(t)
	}
}
