package envconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	c := NewConfig("", true, 4)
	assert.True(t, c.Interactive())
	assert.Equal(t, DefaultConnector, c.Connector)
	assert.Equal(t, DefaultPort, c.Port)
	assert.NoError(t, c.Validate())

	c = NewConfig("game.x86_64", false, 1)
	assert.False(t, c.Interactive())
}

func TestValidate(t *testing.T) {
	for _, modify := range []func(*Config){
		func(c *Config) { c.Connector = "" },
		func(c *Config) { c.Speedup = 0 },
		func(c *Config) { c.Port = 70000 },
		func(c *Config) { c.ActionRepeat = -1 },
	} {
		c := NewConfig("", false, 1)
		modify(&c)
		assert.Error(t, c.Validate())
	}
}
