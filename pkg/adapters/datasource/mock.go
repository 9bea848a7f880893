package datasource

import (
	"context"
)

// MockQueryExecutor is a configurable mock for testing query execution.
// Set the function field to control behavior in tests.
type MockQueryExecutor struct {
	// QueryFunc is called when Query is invoked. If nil, returns an
	// empty result and nil error.
	QueryFunc func(ctx context.Context, sqlQuery string) (*QueryResult, error)

	// Call tracking for verification
	QueryCalls int
	Queries    []string
	Closed     bool
}

// NewMockQueryExecutor creates a new mock executor.
func NewMockQueryExecutor() *MockQueryExecutor {
	return &MockQueryExecutor{}
}

// Query implements QueryExecutor.
func (m *MockQueryExecutor) Query(ctx context.Context, sqlQuery string) (*QueryResult, error) {
	m.QueryCalls++
	m.Queries = append(m.Queries, sqlQuery)
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sqlQuery)
	}
	return &QueryResult{Rows: []map[string]any{}}, nil
}

// Close implements QueryExecutor.
func (m *MockQueryExecutor) Close() error {
	m.Closed = true
	return nil
}

var _ QueryExecutor = (*MockQueryExecutor)(nil)

// MockFactory is a configurable mock for testing executor creation.
type MockFactory struct {
	// NewQueryExecutorFunc is called when NewQueryExecutor is invoked.
	// If nil, returns Executor (or a fresh mock when Executor is nil).
	NewQueryExecutorFunc func(ctx context.Context, tenantID string, cfg *Config) (QueryExecutor, error)

	// Executor is the default executor returned if the function is not set.
	Executor *MockQueryExecutor

	Closed bool
}

// NewMockFactory creates a mock factory with a default mock executor.
func NewMockFactory() *MockFactory {
	return &MockFactory{Executor: NewMockQueryExecutor()}
}

// NewQueryExecutor implements Factory.
func (f *MockFactory) NewQueryExecutor(ctx context.Context, tenantID string, cfg *Config) (QueryExecutor, error) {
	if f.NewQueryExecutorFunc != nil {
		return f.NewQueryExecutorFunc(ctx, tenantID, cfg)
	}
	if f.Executor == nil {
		f.Executor = NewMockQueryExecutor()
	}
	return f.Executor, nil
}

// Close implements Factory.
func (f *MockFactory) Close() {
	f.Closed = true
}

var _ Factory = (*MockFactory)(nil)
