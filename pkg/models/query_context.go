package models

import (
	"time"
)

// ErrorKind classifies pipeline failures for statistics and API responses.
type ErrorKind string

const (
	ErrorKindGeneration ErrorKind = "generation_failed"
	ErrorKindValidation ErrorKind = "validation_failed"
	ErrorKindDB         ErrorKind = "db_error"
	ErrorKindTimeout    ErrorKind = "timeout"
	ErrorKindMissing    ErrorKind = "missing_info"
	ErrorKindUnknown    ErrorKind = "unknown"
)

// PipelineError captures the first failure of a pipeline run.
// Message is user-facing and must never contain SQL text or
// connection fragments.
type PipelineError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *PipelineError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// NumericSummary holds summary statistics for one numeric result column.
type NumericSummary struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

// TopEntry is one entry of a top-N ranking derived from the result set.
type TopEntry struct {
	Label  string  `json:"label"`
	Column string  `json:"column"`
	Value  float64 `json:"value"`
}

// Insights holds derived highlights computed by the result cleaner.
type Insights struct {
	RowCount int                       `json:"row_count"`
	Numeric  map[string]NumericSummary `json:"numeric,omitempty"`
	Top      []TopEntry                `json:"top,omitempty"`
	Notes    []string                  `json:"notes,omitempty"`
}

// QueryContext is the per-request record threaded through every pipeline
// stage. It is owned by a single goroutine for the lifetime of one
// question; stages append to it and never un-set populated fields. Once
// Err is set, no stage mutates the context except final formatting.
type QueryContext struct {
	RequestID   string
	TenantID    string
	RawQuestion string

	State      PipelineState
	Intent     Intent
	Entities   map[string][]string
	Confidence float64

	MissingFields []string

	SQL              string
	ValidationIssues []string

	Rows        []map[string]any
	CleanedRows []map[string]any
	Insights    *Insights

	Answer string

	StageTimings map[string]time.Duration
	Err          *PipelineError

	StartedAt time.Time
}

// NewQueryContext creates a context in the INIT state.
func NewQueryContext(requestID, tenantID, question string) *QueryContext {
	return &QueryContext{
		RequestID:    requestID,
		TenantID:     tenantID,
		RawQuestion:  question,
		State:        StateInit,
		Entities:     make(map[string][]string),
		StageTimings: make(map[string]time.Duration),
		StartedAt:    time.Now(),
	}
}

// Fail records the first error and moves the context to FAILED.
// Subsequent calls are no-ops so the original cause is preserved.
func (qc *QueryContext) Fail(kind ErrorKind, message string) {
	if qc.Err != nil {
		return
	}
	qc.Err = &PipelineError{Kind: kind, Message: message}
	qc.State = StateFailed
}

// Transition moves the context to the target state if the transition is
// legal. Illegal transitions indicate an orchestrator bug and are
// reported as unknown failures rather than panicking.
func (qc *QueryContext) Transition(target PipelineState) bool {
	if !qc.State.CanTransitionTo(target) {
		qc.Fail(ErrorKindUnknown, "illegal state transition from "+string(qc.State)+" to "+string(target))
		return false
	}
	qc.State = target
	return true
}

// RecordTiming stores the duration of one completed stage.
func (qc *QueryContext) RecordTiming(stage string, d time.Duration) {
	qc.StageTimings[stage] = d
}

// Succeeded reports whether the run reached ANSWERED with an answer set.
func (qc *QueryContext) Succeeded() bool {
	return qc.State == StateAnswered && qc.Answer != "" && qc.Err == nil
}
