// Package tenant resolves tenant identifiers to datasource connection
// parameters.
package tenant

import (
	"fmt"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/apperrors"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/config"
)

// Registry resolves tenant IDs to datasource configurations. An
// unknown tenant is a configuration error, not a pipeline error.
type Registry interface {
	Resolve(tenantID string) (*datasource.Config, error)
	TenantIDs() []string
}

type registry struct {
	tenants map[string]datasource.Config
	order   []string
}

// NewRegistry builds a registry from the loaded configuration.
func NewRegistry(cfg *config.Config) Registry {
	r := &registry{tenants: make(map[string]datasource.Config, len(cfg.Tenants))}
	for _, t := range cfg.Tenants {
		r.tenants[t.ID] = t.Datasource
		r.order = append(r.order, t.ID)
	}
	return r
}

// Resolve returns the datasource config for a tenant.
func (r *registry) Resolve(tenantID string) (*datasource.Config, error) {
	cfg, ok := r.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownTenant, tenantID)
	}
	return &cfg, nil
}

// TenantIDs returns configured tenant IDs in configuration order.
func (r *registry) TenantIDs() []string {
	return r.order
}
