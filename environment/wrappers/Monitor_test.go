package wrappers

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/envtest"
	"github.com/samuelfneumann/godotrl/environment/vecenv"
	"github.com/samuelfneumann/godotrl/experiment/tracker"
	"github.com/samuelfneumann/godotrl/utils/progressbar"
)

func newMonitor(t *testing.T, n, episodeLength int) (*Monitor,
	*envtest.Simulation) {
	sim := envtest.NewSimulation(n, map[string]int{"pos": 2})
	sim.EpisodeLength = episodeLength
	adapter, err := vecenv.NewFromSimulation(sim)
	require.NoError(t, err)
	return NewMonitor(adapter), sim
}

func TestMonitorTracksReturns(t *testing.T) {
	m, _ := newMonitor(t, 2, 3)
	returns := tracker.NewReturn(filepath.Join(t.TempDir(), "returns.bin"))
	lengths := tracker.NewEpisodeLength(filepath.Join(t.TempDir(),
		"lengths.bin"))
	m.Register(returns)
	m.Register(lengths)

	_, err := m.Reset()
	require.NoError(t, err)

	actions := mat.NewDense(2, 2, nil)
	for i := 0; i < 7; i++ {
		_, _, _, _, err := m.Step(actions)
		require.NoError(t, err)
	}

	// Each instance finished two episodes of 3 steps, instance i earns
	// a reward of i+1 per step
	assert.Equal(t, 4, m.Episodes())
	assert.Equal(t, []float64{3, 6, 3, 6}, returns.Returns())
	assert.Equal(t, []float64{3, 3, 3, 3}, lengths.Lengths())
	require.NoError(t, m.Save())
}

func TestMonitorProgress(t *testing.T) {
	m, _ := newMonitor(t, 4, 0)
	var out bytes.Buffer
	bar := progressbar.NewManualProgressBar(&out, 20, 40)
	m.DisplayProgress(bar, 5)

	_, err := m.Reset()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, _, _, _, err := m.Step(mat.NewDense(4, 2, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 0.5, bar.Progress())
	assert.Contains(t, out.String(), "[50.00%")
}

func TestMonitorCloseClosesWrapped(t *testing.T) {
	m, sim := newMonitor(t, 1, 0)

	require.NoError(t, m.Close())
	assert.Equal(t, 1, sim.Closes)
}

func TestMonitorPropagatesErrors(t *testing.T) {
	m, sim := newMonitor(t, 1, 0)
	sim.ResetErr = assert.AnError

	_, err := m.Reset()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMonitorResetMidEpisode(t *testing.T) {
	m, _ := newMonitor(t, 2, 3)
	returns := tracker.NewReturn(filepath.Join(t.TempDir(), "returns.bin"))
	m.Register(returns)

	actions := mat.NewDense(2, 2, nil)
	_, err := m.Reset()
	require.NoError(t, err)
	_, _, _, _, err = m.Step(actions)
	require.NoError(t, err)

	// The running episodes are dropped
	_, err = m.Reset()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, _, _, _, err := m.Step(actions)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, m.Episodes())
	assert.Equal(t, []float64{3, 6}, returns.Returns())
}

// noInfos drops the infos of the environment it wraps
type noInfos struct {
	vecenv.VecEnv
}

func (n noInfos) Step(actions mat.Matrix) (vecenv.Batch, *mat.VecDense,
	[]bool, []environment.Info, error) {
	obs, rewards, dones, _, err := n.VecEnv.Step(actions)
	return obs, rewards, dones, nil, err
}

func TestMonitorWithoutInfos(t *testing.T) {
	sim := envtest.NewSimulation(2, map[string]int{"pos": 2})
	sim.TruncateAt = 1
	adapter, err := vecenv.NewFromSimulation(sim)
	require.NoError(t, err)
	m := NewMonitor(noInfos{adapter})

	_, err = m.Reset()
	require.NoError(t, err)
	_, _, dones, infos, err := m.Step(mat.NewDense(2, 2, nil))
	require.NoError(t, err)
	assert.Nil(t, infos)
	assert.Equal(t, []bool{true, true}, dones)
	assert.Equal(t, 2, m.Episodes())
}
