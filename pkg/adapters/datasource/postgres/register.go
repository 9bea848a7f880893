package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/retry"
)

func init() {
	datasource.Register(datasource.TypePostgres, newExecutor)
}

func newExecutor(ctx context.Context, cfg *datasource.Config, connMgr *datasource.ConnectionManager, tenantID string) (datasource.QueryExecutor, error) {
	key := fmt.Sprintf("%s:%s:%s/%s", tenantID, datasource.TypePostgres, cfg.Host, cfg.Database)

	pool, err := connMgr.GetOrCreate(ctx, key, func(ctx context.Context) (datasource.Pool, error) {
		p, err := retry.DoWithResult(ctx, nil, func() (*pgxpool.Pool, error) {
			return pgxpool.New(ctx, BuildConnString(cfg))
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return &PoolAdapter{Pool: p}, nil
	})
	if err != nil {
		return nil, err
	}

	return NewExecutor(pool.(*PoolAdapter).Pool), nil
}
