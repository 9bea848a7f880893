// Package mssql implements the datasource adapter for SQL Server
// tenant databases via database/sql and the go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource"
)

// BuildConnString renders a sqlserver connection URL from a datasource
// config.
func BuildConnString(cfg *datasource.Config) string {
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	q := url.Values{}
	q.Set("database", cfg.Database)
	u.RawQuery = q.Encode()
	return u.String()
}

// PoolAdapter wraps a sql.DB to satisfy datasource.Pool.
type PoolAdapter struct {
	DB *sql.DB
}

// Close implements datasource.Pool.
func (p *PoolAdapter) Close() {
	_ = p.DB.Close()
}

// Executor provides SQL Server query execution over a managed pool.
type Executor struct {
	db *sql.DB
}

// NewExecutor creates an executor borrowing the given managed pool.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Query runs a SELECT statement and returns its result set. Driver
// byte slices are converted to strings so rows serialize cleanly.
func (e *Executor) Query(ctx context.Context, sqlQuery string) (*datasource.QueryResult, error) {
	rows, err := e.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rowMap[col] = string(b)
			} else {
				rowMap[col] = values[i]
			}
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
