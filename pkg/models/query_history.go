package models

import (
	"time"
)

// QueryHistoryEntry records one completed pipeline run for audit and
// offline evaluation of generation quality.
type QueryHistoryEntry struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"request_id"`
	TenantID   string    `json:"tenant_id"`
	Question   string    `json:"question"`
	Intent     Intent    `json:"intent"`
	SQL        string    `json:"sql,omitempty"`
	Success    bool      `json:"success"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
