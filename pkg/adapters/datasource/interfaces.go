// Package datasource provides adapters for executing validated SQL
// against tenant databases.
package datasource

import "context"

// Supported datasource types.
const (
	TypePostgres = "postgres"
	TypeMSSQL    = "mssql"
)

// Config holds connection parameters for one tenant datasource.
type Config struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"-" json:"-"`
	Database string `yaml:"database" json:"database"`
	SSLMode  string `yaml:"ssl_mode" json:"ssl_mode"`
}

// QueryResult contains the results of a SQL query execution.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// QueryExecutor executes read queries against one tenant datasource.
// Implementations are safe for concurrent use by multiple in-flight
// pipelines; the underlying pool handles synchronization. Errors are
// surfaced verbatim with no automatic retry.
type QueryExecutor interface {
	// Query runs a SELECT statement and returns its full result set.
	// The statement is expected to be validated and bounded already.
	Query(ctx context.Context, sqlQuery string) (*QueryResult, error)

	// Close releases resources not owned by the connection manager.
	Close() error
}

// Factory creates query executors for tenant datasources.
type Factory interface {
	// NewQueryExecutor builds an executor for the given tenant's
	// datasource configuration. Pools are reused across calls for the
	// same tenant.
	NewQueryExecutor(ctx context.Context, tenantID string, cfg *Config) (QueryExecutor, error)

	// Close shuts down all pooled connections.
	Close()
}
