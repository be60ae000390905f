package environment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samuelfneumann/godotrl/environment/envconfig"
)

// Connector opens connections to simulations. Connectors are provided
// by packages which implement a simulation's wire protocol and are
// registered with this package using RegisterConnector.
type Connector interface {
	Connect(ctx context.Context, cfg envconfig.Config) (Simulation, error)
}

// ConnectorFunc adapts an ordinary function to the Connector interface
type ConnectorFunc func(ctx context.Context, cfg envconfig.Config) (
	Simulation, error)

// Connect implements the Connector interface
func (f ConnectorFunc) Connect(ctx context.Context,
	cfg envconfig.Config) (Simulation, error) {
	return f(ctx, cfg)
}

// Registered connectors. No Connectors are registered with this
// package upon initialization. Each providing package is in charge of
// registering its own Connector to avoid circular imports.
var (
	connectorsMu sync.RWMutex
	connectors   = make(map[string]Connector)
)

// RegisterConnector registers a Connector under the given name. It
// panics if called twice with the same name or with a nil Connector.
func RegisterConnector(name string, c Connector) {
	connectorsMu.Lock()
	defer connectorsMu.Unlock()

	if c == nil {
		panic("registerConnector: connector is nil")
	}
	if _, dup := connectors[name]; dup {
		panic(fmt.Sprintf("registerConnector: connector %q registered twice",
			name))
	}
	connectors[name] = c
}

// LookupConnector returns the Connector registered under name
func LookupConnector(name string) (Connector, error) {
	connectorsMu.RLock()
	defer connectorsMu.RUnlock()

	c, ok := connectors[name]
	if !ok {
		return nil, fmt.Errorf("lookupConnector: no connector %q registered "+
			"(registered: %v)", name, connectorNames())
	}
	return c, nil
}

// Connect opens a Simulation using the Connector named by the
// configuration
func Connect(ctx context.Context, cfg envconfig.Config) (Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	c, err := LookupConnector(cfg.Connector)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return c.Connect(ctx, cfg)
}

func connectorNames() []string {
	names := make([]string, 0, len(connectors))
	for name := range connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
