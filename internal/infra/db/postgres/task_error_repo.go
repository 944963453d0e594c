package postgres

import (
	"context"
	"database/sql"

	domain "github.com/Idosegev23/GameChanger/internal/domain/taskerrors"
)

type TaskErrorRepository struct {
	db *sql.DB
}

func NewTaskErrorRepository(db *sql.DB) *TaskErrorRepository {
	return &TaskErrorRepository{db: db}
}

func (r *TaskErrorRepository) Save(ctx context.Context, e *domain.TaskError) error {
	const q = `
INSERT INTO task_errors (analysis_id, phase, message, created_at)
VALUES ($1,$2,$3,$4);
`
	_, err := r.db.ExecContext(ctx, q, e.AnalysisID, e.Phase, e.Message, e.CreatedAt)
	return err
}

func (r *TaskErrorRepository) ListByAnalysis(ctx context.Context, analysisID string, limit int) ([]*domain.TaskError, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, analysis_id, phase, message, created_at
FROM task_errors
WHERE analysis_id = $1 ORDER BY created_at DESC LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, analysisID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.TaskError
	for rows.Next() {
		var e domain.TaskError
		if err := rows.Scan(&e.ID, &e.AnalysisID, &e.Phase, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
