package models

// PipelineState represents the position of a question inside the
// answering pipeline.
// State machine:
//
//	INIT → INTENT_DETECTED → INFO_CHECKED → SQL_GENERATED → SQL_VALIDATED
//	     → EXECUTED → CLEANED → ANSWERED
//
//	INTENT_DETECTED can branch to: MISSING_INFO (terminal)
//	Any state can transition to: FAILED (terminal)
type PipelineState string

const (
	StateInit           PipelineState = "INIT"
	StateIntentDetected PipelineState = "INTENT_DETECTED"
	StateInfoChecked    PipelineState = "INFO_CHECKED"
	StateSQLGenerated   PipelineState = "SQL_GENERATED"
	StateSQLValidated   PipelineState = "SQL_VALIDATED"
	StateExecuted       PipelineState = "EXECUTED"
	StateCleaned        PipelineState = "CLEANED"
	StateAnswered       PipelineState = "ANSWERED"
	StateMissingInfo    PipelineState = "MISSING_INFO"
	StateFailed         PipelineState = "FAILED"
)

// ValidPipelineStates contains all state values.
var ValidPipelineStates = []PipelineState{
	StateInit,
	StateIntentDetected,
	StateInfoChecked,
	StateSQLGenerated,
	StateSQLValidated,
	StateExecuted,
	StateCleaned,
	StateAnswered,
	StateMissingInfo,
	StateFailed,
}

// IsTerminal returns true if the state ends pipeline processing.
func (s PipelineState) IsTerminal() bool {
	return s == StateAnswered || s == StateMissingInfo || s == StateFailed
}

// CanTransitionTo returns true if transitioning from this state to the target is valid.
func (s PipelineState) CanTransitionTo(target PipelineState) bool {
	// Any non-terminal state can fail
	if target == StateFailed {
		return !s.IsTerminal()
	}

	switch s {
	case StateInit:
		return target == StateIntentDetected
	case StateIntentDetected:
		return target == StateInfoChecked || target == StateMissingInfo
	case StateInfoChecked:
		return target == StateSQLGenerated
	case StateSQLGenerated:
		return target == StateSQLValidated
	case StateSQLValidated:
		return target == StateExecuted
	case StateExecuted:
		return target == StateCleaned
	case StateCleaned:
		return target == StateAnswered
	case StateAnswered, StateMissingInfo, StateFailed:
		return false // Terminal states
	default:
		return false
	}
}
