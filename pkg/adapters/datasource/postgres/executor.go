// Package postgres implements the datasource adapter for PostgreSQL
// tenant databases using pgx connection pools.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource"
)

// BuildConnString renders a pgx connection string from a datasource
// config.
func BuildConnString(cfg *datasource.Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode,
	)
}

// PoolAdapter wraps a pgxpool.Pool to satisfy datasource.Pool.
type PoolAdapter struct {
	*pgxpool.Pool
}

// Close implements datasource.Pool.
func (p *PoolAdapter) Close() {
	p.Pool.Close()
}

// Executor provides PostgreSQL query execution over a managed pool.
type Executor struct {
	pool *pgxpool.Pool
}

// NewExecutor creates an executor borrowing the given managed pool.
func NewExecutor(pool *pgxpool.Pool) *Executor {
	return &Executor{pool: pool}
}

// Query runs a SELECT statement and returns its result set.
func (e *Executor) Query(ctx context.Context, sqlQuery string) (*datasource.QueryResult, error) {
	rows, err := e.pool.Query(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &datasource.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

// Close is a no-op: the connection manager owns the pool.
func (e *Executor) Close() error {
	return nil
}

var _ datasource.QueryExecutor = (*Executor)(nil)
