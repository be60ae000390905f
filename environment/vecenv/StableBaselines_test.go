package vecenv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/godotrl/environment"
	"github.com/samuelfneumann/godotrl/environment/envconfig"
	"github.com/samuelfneumann/godotrl/environment/envtest"
	"github.com/samuelfneumann/godotrl/environment/vecenv"
)

var components = map[string]int{"camera": 3, "position": 2}

func newAdapter(t *testing.T, n int) (*vecenv.StableBaselines,
	*envtest.Simulation) {
	sim := envtest.NewSimulation(n, components)
	adapter, err := vecenv.NewFromSimulation(sim)
	require.NoError(t, err)
	return adapter, sim
}

func TestResetShape(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16} {
		adapter, sim := newAdapter(t, n)

		obs, err := adapter.Reset()
		require.NoError(t, err)

		assert.Equal(t, []string{"camera", "position"}, obs.Keys())
		for key, m := range obs {
			r, c := m.Dims()
			assert.Equal(t, adapter.NumEnvs(), r)
			assert.Equal(t, components[key], c)
			for i := 0; i < r; i++ {
				assert.Equal(t, sim.Value(key, i, 0, 0), m.At(i, 0))
			}
		}
	}
}

func TestStepShape(t *testing.T) {
	adapter, sim := newAdapter(t, 4)
	_, err := adapter.Reset()
	require.NoError(t, err)

	actions := mat.NewDense(4, 2, []float64{
		0.1, 0.2,
		0.3, 0.4,
		0.5, 0.6,
		0.7, 0.8,
	})
	obs, rewards, dones, infos, err := adapter.Step(actions)
	require.NoError(t, err)

	assert.Equal(t, 4, rewards.Len())
	assert.Len(t, dones, 4)
	assert.Len(t, infos, 4)
	assert.Equal(t, 4, obs.Len())
	for i := 0; i < 4; i++ {
		assert.Equal(t, float64(i+1), rewards.AtVec(i))
		assert.Equal(t, sim.Value("camera", i, 1, 2), obs["camera"].At(i, 2))
	}

	// Actions are forwarded per instance in row order
	require.Len(t, sim.LastActions, 4)
	assert.Equal(t, []float64{0.5, 0.6}, sim.LastActions[2].RawVector().Data)
}

func TestStepTerminalSignal(t *testing.T) {
	adapter, sim := newAdapter(t, 2)
	sim.EpisodeLength = 2
	sim.TruncateAt = 1
	_, err := adapter.Reset()
	require.NoError(t, err)

	actions := mat.NewDense(2, 2, nil)

	// Truncated but not terminated
	_, _, dones, infos, err := adapter.Step(actions)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, dones)
	assert.Equal(t, true, infos[0][vecenv.TruncatedInfoKey])

	// Neither, then terminated
	sim.TruncateAt = 0
	_, _, dones, infos, err = adapter.Step(actions)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false}, dones)
	assert.NotContains(t, infos[1], vecenv.TruncatedInfoKey)

	_, _, dones, infos, err = adapter.Step(actions)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, dones)
	assert.NotContains(t, infos[0], vecenv.TruncatedInfoKey)
}

func TestStepWrongActionCount(t *testing.T) {
	adapter, sim := newAdapter(t, 3)

	_, _, _, _, err := adapter.Step(mat.NewDense(2, 2, nil))
	assert.True(t, vecenv.IsMalformedBatch(err))
	assert.Equal(t, 0, sim.Steps)
}

func TestSimulationErrorsPropagate(t *testing.T) {
	adapter, sim := newAdapter(t, 1)
	failure := errors.New("connection reset")

	sim.ResetErr = failure
	_, err := adapter.Reset()
	assert.ErrorIs(t, err, failure)

	sim.StepErr = failure
	_, _, _, _, err = adapter.Step(mat.NewDense(1, 2, nil))
	assert.ErrorIs(t, err, failure)
}

func TestSpacesDelegate(t *testing.T) {
	adapter, sim := newAdapter(t, 7)

	assert.Same(t, sim.ObsSpace, adapter.ObservationSpace())
	assert.Same(t, sim.ActSpace, adapter.ActionSpace())
	assert.Equal(t, 7, adapter.NumEnvs())
}

func TestRejectMultipleActionSpaces(t *testing.T) {
	discrete, err := environment.NewDiscrete(3)
	require.NoError(t, err)
	box, err := environment.NewBox([]float64{-1}, []float64{1})
	require.NoError(t, err)

	sim := envtest.NewSimulation(2, components)
	sim.ActSpace = environment.NewTuple(discrete, box)

	adapter, err := vecenv.NewFromSimulation(sim)
	assert.Nil(t, adapter)
	require.Error(t, err)
	assert.True(t, vecenv.IsMultipleActionSpaces(err))
	assert.Contains(t, err.Error(), "Tuple(Discrete(3)")

	// Connection is released when construction fails
	connector := &envtest.Connector{Sim: sim}
	adapter, err = vecenv.New(context.Background(), connector,
		envconfig.NewConfig("", false, 1))
	assert.Nil(t, adapter)
	assert.True(t, vecenv.IsMultipleActionSpaces(err))
	assert.Equal(t, 1, sim.Closes)
}

func TestSingleTupleActionSpace(t *testing.T) {
	discrete, err := environment.NewDiscrete(3)
	require.NoError(t, err)

	sim := envtest.NewSimulation(2, components)
	sim.ActSpace = environment.NewTuple(discrete)

	adapter, err := vecenv.NewFromSimulation(sim)
	require.NoError(t, err)
	assert.Same(t, sim.ActSpace, adapter.ActionSpace())
}

func TestNewConnects(t *testing.T) {
	sim := envtest.NewSimulation(2, components)
	connector := &envtest.Connector{Sim: sim}
	cfg := envconfig.NewConfig("bin/game.x86_64", true, 8)

	adapter, err := vecenv.New(context.Background(), connector, cfg)
	require.NoError(t, err)
	require.Len(t, connector.Configs, 1)
	assert.Equal(t, cfg, connector.Configs[0])
	assert.Equal(t, 2, adapter.NumEnvs())

	connector.Err = errors.New("no simulation listening")
	_, err = vecenv.New(context.Background(), connector, cfg)
	assert.ErrorIs(t, err, connector.Err)

	cfg.Speedup = 0
	_, err = vecenv.New(context.Background(), connector, cfg)
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	adapter, sim := newAdapter(t, 2)

	require.NoError(t, adapter.Close())
	require.NoError(t, adapter.Close())
	assert.Equal(t, 1, sim.Closes)

	_, err := adapter.Reset()
	assert.True(t, vecenv.IsClosed(err))
	_, _, _, _, err = adapter.Step(mat.NewDense(2, 2, nil))
	assert.True(t, vecenv.IsClosed(err))
}

func TestUnsupportedOperations(t *testing.T) {
	adapter, _ := newAdapter(t, 2)

	_, err := adapter.GetAttr("speed")
	assert.True(t, vecenv.IsNotSupported(err))
	assert.True(t, vecenv.IsNotSupported(adapter.SetAttr("speed", 1)))
	assert.True(t, vecenv.IsNotSupported(adapter.Seed(1)))
	_, err = adapter.EnvMethod("render", nil)
	assert.True(t, vecenv.IsNotSupported(err))
	assert.True(t, vecenv.IsNotSupported(adapter.StepAsync(
		mat.NewDense(2, 2, nil))))
	_, _, _, _, err = adapter.StepWait()
	assert.True(t, vecenv.IsNotSupported(err))
	_, err = adapter.EnvIsWrapped("Monitor")
	assert.True(t, vecenv.IsNotSupported(err))
}

// shortResults drops the last reward and truncation flag of every step
type shortResults struct {
	*envtest.Simulation
}

func (s shortResults) Step(actions []*mat.VecDense) (environment.StepResult,
	error) {
	result, err := s.Simulation.Step(actions)
	result.Rewards = result.Rewards[:len(result.Rewards)-1]
	result.Truncated = result.Truncated[:len(result.Truncated)-1]
	return result, err
}

func TestStepShortResultNamesFirstField(t *testing.T) {
	sim := shortResults{envtest.NewSimulation(3, components)}
	adapter, err := vecenv.NewFromSimulation(sim)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, _, _, _, err := adapter.Step(mat.NewDense(3, 2, nil))
		require.Error(t, err)
		assert.True(t, vecenv.IsMalformedBatch(err))
		assert.Contains(t, err.Error(), "expected 3 rewards but got 2")
	}
}
