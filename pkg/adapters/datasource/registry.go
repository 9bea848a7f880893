package datasource

import (
	"context"
	"fmt"
	"sync"
)

// ExecutorFactory builds a query executor for one tenant datasource,
// reusing pools through the connection manager.
type ExecutorFactory func(ctx context.Context, cfg *Config, connMgr *ConnectionManager, tenantID string) (QueryExecutor, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]ExecutorFactory)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(dsType string, factory ExecutorFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[dsType] = factory
}

// RegisteredTypes returns all registered datasource types.
func RegisteredTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}

func executorFactory(dsType string) (ExecutorFactory, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := registry[dsType]
	if !ok {
		return nil, fmt.Errorf("unsupported datasource type: %s", dsType)
	}
	return factory, nil
}
