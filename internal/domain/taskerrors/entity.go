package taskerrors

import "time"

// TaskError is a dead-letter entry for a failed background processing task.
// The HTTP caller that triggered the task never sees these; they exist so
// detached failures stay observable instead of vanishing into a log line.
type TaskError struct {
	ID         int64     `json:"id"`
	AnalysisID string    `json:"analysis_id"`
	Phase      string    `json:"phase,omitempty"` // fetch | transcribe | score | parse | persist
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
