package taskerrors

import "context"

// Repository defines persistence for dead-lettered task failures.
type Repository interface {
	Save(ctx context.Context, e *TaskError) error
	ListByAnalysis(ctx context.Context, analysisID string, limit int) ([]*TaskError, error)
}
