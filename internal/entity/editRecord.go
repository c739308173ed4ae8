package entity

import "time"

type EditOutcome string

const (
	OutcomeCompleted EditOutcome = "completed"
	OutcomeFailed    EditOutcome = "failed"
	OutcomeDiscarded EditOutcome = "discarded"
)

// EditRecord describes one finished remote edit request. It is journaled
// and published; it is never read back into a session.
type EditRecord struct {
	ID         string        `json:"id"`
	SessionID  string        `json:"session_id"`
	Prompt     string        `json:"prompt"`
	Masked     bool          `json:"masked"`
	Outcome    EditOutcome   `json:"outcome"`
	Error      string        `json:"error,omitempty"`
	SourceName string        `json:"source_name"`
	ResultName string        `json:"result_name,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
	At         time.Time     `json:"at"`
}

// EventName is the topic-level name of the record's event.
func (r *EditRecord) EventName() string {
	if r.Outcome == OutcomeCompleted {
		return "edit.completed"
	}
	return "edit.failed"
}
