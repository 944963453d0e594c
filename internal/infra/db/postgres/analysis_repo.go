package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/Idosegev23/GameChanger/internal/domain/analyses"
)

// AnalysisRepository is the lib/pq variant of the analysis store. Same
// compare-and-set lifecycle rules as the mysql repository.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO call_analyses
(id, user_id, company_id, analysis_type, status, created_at, transcription, recording_url, report_data)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);
`
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	report, err := marshalReport(a.Report)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.OwnerUserID, a.CompanyID, a.Type, a.Status, created,
		nullString(a.Transcription), nullString(a.RecordingURL), report,
	)
	return err
}

func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, company_id, analysis_type, status, created_at, transcription, recording_url, report_data
FROM call_analyses
WHERE id=$1 LIMIT 1;
`
	return scanAnalysis(r.db.QueryRowContext(ctx, q, id))
}

func (r *AnalysisRepository) LatestByOwner(ctx context.Context, userID string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, user_id, company_id, analysis_type, status, created_at, transcription, recording_url, report_data
FROM call_analyses
WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnalysisRepository) MarkProcessing(ctx context.Context, id domain.AnalysisID) (bool, error) {
	const q = `
UPDATE call_analyses
SET status = $1
WHERE id = $2 AND status = $3;
`
	res, err := r.db.ExecContext(ctx, q, domain.StatusProcessing, id, domain.StatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *AnalysisRepository) SaveTranscription(ctx context.Context, id domain.AnalysisID, text string) error {
	const q = `
UPDATE call_analyses
SET transcription = $1
WHERE id = $2 AND (transcription IS NULL OR transcription = '');
`
	_, err := r.db.ExecContext(ctx, q, text, id)
	return err
}

func (r *AnalysisRepository) CompleteDone(ctx context.Context, id domain.AnalysisID, report *domain.ReportData, transcription string) (bool, error) {
	raw, err := marshalReport(report)
	if err != nil {
		return false, err
	}
	const q = `
UPDATE call_analyses
SET status = $1, report_data = $2, transcription = $3
WHERE id = $4 AND status = $5;
`
	res, err := r.db.ExecContext(ctx, q, domain.StatusDone, raw, nullString(transcription), id, domain.StatusProcessing)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *AnalysisRepository) CompleteError(ctx context.Context, id domain.AnalysisID, message string) (bool, error) {
	raw, err := marshalReport(domain.ErrorReport(message))
	if err != nil {
		return false, err
	}
	const q = `
UPDATE call_analyses
SET status = $1, report_data = $2
WHERE id = $3 AND status = $4;
`
	res, err := r.db.ExecContext(ctx, q, domain.StatusError, raw, id, domain.StatusProcessing)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var a domain.Analysis
	var transcription, recordingURL, reportRaw sql.NullString
	if err := row.Scan(
		&a.ID, &a.OwnerUserID, &a.CompanyID, &a.Type, &a.Status, &a.CreatedAt,
		&transcription, &recordingURL, &reportRaw,
	); err != nil {
		return nil, err
	}
	a.Transcription = transcription.String
	a.RecordingURL = recordingURL.String
	if reportRaw.Valid && reportRaw.String != "" {
		var report domain.ReportData
		if err := json.Unmarshal([]byte(reportRaw.String), &report); err != nil {
			return nil, fmt.Errorf("decode report_data for %s: %w", a.ID, err)
		}
		a.Report = &report
	}
	return &a, nil
}

func marshalReport(report *domain.ReportData) (sql.NullString, error) {
	if report == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode report_data: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
