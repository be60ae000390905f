package vecenv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/godotrl/environment/envconfig"
	"github.com/samuelfneumann/godotrl/environment/envtest"
	"github.com/samuelfneumann/godotrl/environment/vecenv"
)

func TestFactoryWorkers(t *testing.T) {
	conn := &envtest.Connector{Sim: envtest.NewSimulation(3, components)}
	base := envconfig.NewConfig("game.x86_64", true, 4)
	base.Seed = 10
	factory := vecenv.NewFactory(conn, base)

	for worker := 0; worker < 3; worker++ {
		env, err := factory(context.Background(), worker)
		require.NoError(t, err)
		assert.Equal(t, 3, env.NumEnvs())
	}

	require.Len(t, conn.Configs, 3)
	for worker, cfg := range conn.Configs {
		assert.Equal(t, envconfig.DefaultPort+worker, cfg.Port)
		assert.Equal(t, uint64(10+worker), cfg.Seed)
		assert.Equal(t, worker == 0, cfg.ShowWindow)
		assert.Equal(t, 4, cfg.Speedup)
		assert.Equal(t, "game.x86_64", cfg.EnvPath)
	}

	_, err := factory(context.Background(), -1)
	assert.Error(t, err)
}
