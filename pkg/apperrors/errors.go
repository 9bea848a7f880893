// Package apperrors defines sentinel errors matched with errors.Is
// across package boundaries.
package apperrors

import "errors"

var (
	// ErrUnknownTenant marks a tenant ID with no configured datasource.
	ErrUnknownTenant = errors.New("unknown tenant")

	// ErrNoSQLFound marks model output containing no usable statement.
	ErrNoSQLFound = errors.New("no SQL statement found in model output")
)
