package models

// QueryResponse is the terminal result returned to callers of the
// pipeline. Exactly one of Answer or Error is populated on completion;
// MISSING_INFO runs carry the clarification text in Answer with
// Success=false.
type QueryResponse struct {
	RequestID    string              `json:"request_id"`
	Success      bool                `json:"success"`
	State        PipelineState       `json:"state"`
	Intent       Intent              `json:"intent"`
	Confidence   float64             `json:"confidence"`
	Entities     map[string][]string `json:"entities,omitempty"`
	SQL          string              `json:"sql,omitempty"`
	Answer       string              `json:"answer,omitempty"`
	Error        *PipelineError      `json:"error,omitempty"`
	StageTimings map[string]string   `json:"stage_timings,omitempty"`
	RowCount     int                 `json:"row_count"`
}

// ResponseFromContext formats a terminal QueryContext into the caller-facing
// response. SQL is included only for successful runs so failed generations
// and rejected statements are never echoed back.
func ResponseFromContext(qc *QueryContext) *QueryResponse {
	resp := &QueryResponse{
		RequestID:  qc.RequestID,
		Success:    qc.Succeeded(),
		State:      qc.State,
		Intent:     qc.Intent,
		Confidence: qc.Confidence,
		Entities:   qc.Entities,
		Answer:     qc.Answer,
		Error:      qc.Err,
		RowCount:   len(qc.Rows),
	}

	if qc.Succeeded() {
		resp.SQL = qc.SQL
	}

	if len(qc.StageTimings) > 0 {
		resp.StageTimings = make(map[string]string, len(qc.StageTimings))
		for stage, d := range qc.StageTimings {
			resp.StageTimings[stage] = d.String()
		}
	}

	return resp
}
