// Package repositories provides data access to the engine store.
package repositories

import (
	"context"
	"fmt"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/database"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

// QueryHistoryRepository persists completed pipeline runs.
type QueryHistoryRepository interface {
	Record(ctx context.Context, entry *models.QueryHistoryEntry) error
	ListRecent(ctx context.Context, tenantID string, limit int) ([]*models.QueryHistoryEntry, error)
}

type queryHistoryRepository struct {
	db *database.DB
}

// NewQueryHistoryRepository creates a repository backed by the engine store.
func NewQueryHistoryRepository(db *database.DB) QueryHistoryRepository {
	return &queryHistoryRepository{db: db}
}

// Record inserts one history entry.
func (r *queryHistoryRepository) Record(ctx context.Context, entry *models.QueryHistoryEntry) error {
	query := `
		INSERT INTO query_history (request_id, tenant_id, question, intent, sql_text, success, error_kind, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		entry.RequestID,
		entry.TenantID,
		entry.Question,
		string(entry.Intent),
		entry.SQL,
		entry.Success,
		entry.ErrorKind,
		entry.DurationMS,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record query history: %w", err)
	}
	return nil
}

// ListRecent returns the most recent entries for a tenant.
func (r *queryHistoryRepository) ListRecent(ctx context.Context, tenantID string, limit int) ([]*models.QueryHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, request_id, tenant_id, question, intent, sql_text, success, error_kind, duration_ms, created_at
		FROM query_history
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list query history: %w", err)
	}
	defer rows.Close()

	var entries []*models.QueryHistoryEntry
	for rows.Next() {
		var e models.QueryHistoryEntry
		var intent string
		if err := rows.Scan(&e.ID, &e.RequestID, &e.TenantID, &e.Question, &intent,
			&e.SQL, &e.Success, &e.ErrorKind, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query history row: %w", err)
		}
		e.Intent = models.Intent(intent)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate query history rows: %w", err)
	}

	return entries, nil
}
