package mssql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/retry"
)

func init() {
	datasource.Register(datasource.TypeMSSQL, newExecutor)
}

func newExecutor(ctx context.Context, cfg *datasource.Config, connMgr *datasource.ConnectionManager, tenantID string) (datasource.QueryExecutor, error) {
	key := fmt.Sprintf("%s:%s:%s/%s", tenantID, datasource.TypeMSSQL, cfg.Host, cfg.Database)

	pool, err := connMgr.GetOrCreate(ctx, key, func(ctx context.Context) (datasource.Pool, error) {
		db, err := retry.DoWithResult(ctx, nil, func() (*sql.DB, error) {
			db, err := sql.Open("sqlserver", BuildConnString(cfg))
			if err != nil {
				return nil, err
			}
			if err := db.PingContext(ctx); err != nil {
				_ = db.Close()
				return nil, err
			}
			return db, nil
		})
		if err != nil {
			return nil, fmt.Errorf("connect to sqlserver: %w", err)
		}
		return &PoolAdapter{DB: db}, nil
	})
	if err != nil {
		return nil, err
	}

	return NewExecutor(pool.(*PoolAdapter).DB), nil
}
