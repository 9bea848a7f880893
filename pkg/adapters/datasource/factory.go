package datasource

import (
	"context"

	"go.uber.org/zap"
)

// AdapterFactory creates query executors for tenant datasources,
// sharing pools through a connection manager.
type AdapterFactory struct {
	connMgr *ConnectionManager
	logger  *zap.Logger
}

// NewAdapterFactory creates a factory backed by the given connection
// manager.
func NewAdapterFactory(connMgr *ConnectionManager, logger *zap.Logger) *AdapterFactory {
	return &AdapterFactory{
		connMgr: connMgr,
		logger:  logger,
	}
}

// NewQueryExecutor builds an executor for the tenant's datasource type.
func (f *AdapterFactory) NewQueryExecutor(ctx context.Context, tenantID string, cfg *Config) (QueryExecutor, error) {
	factory, err := executorFactory(cfg.Type)
	if err != nil {
		return nil, err
	}
	return factory(ctx, cfg, f.connMgr, tenantID)
}

// Close shuts down all pooled connections.
func (f *AdapterFactory) Close() {
	f.connMgr.Close()
}

var _ Factory = (*AdapterFactory)(nil)
