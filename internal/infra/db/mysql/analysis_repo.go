package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/Idosegev23/GameChanger/internal/domain/analyses"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts a new analysis record (status pending, no payload yet).
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO call_analyses
(id, user_id, company_id, analysis_type, status, created_at, transcription, recording_url, report_data)
VALUES (?,?,?,?,?,?,?,?,?);
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

// Get by ID
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, company_id, analysis_type, status, created_at, transcription, recording_url, report_data
FROM call_analyses
WHERE id=? LIMIT 1;
`
	return scanAnalysis(r.db.QueryRowContext(ctx, q, id))
}

// LatestByOwner returns the owner's most recent analyses.
func (r *AnalysisRepository) LatestByOwner(ctx context.Context, userID string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, user_id, company_id, analysis_type, status, created_at, transcription, recording_url, report_data
FROM call_analyses
WHERE user_id=? ORDER BY created_at DESC LIMIT ?;
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

// MarkProcessing claims the record: pending -> processing. The WHERE clause
// is the whole idempotency story; a concurrent or repeated trigger affects
// zero rows and backs off.
func (r *AnalysisRepository) MarkProcessing(ctx context.Context, id domain.AnalysisID) (bool, error) {
	const q = `
UPDATE call_analyses
SET status = ?
WHERE id = ? AND status = ?;
`
	res, err := r.db.ExecContext(ctx, q, domain.StatusProcessing, id, domain.StatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SaveTranscription writes the transcript once; later calls are no-ops.
func (r *AnalysisRepository) SaveTranscription(ctx context.Context, id domain.AnalysisID, text string) error {
	const q = `
UPDATE call_analyses
SET transcription = ?
WHERE id = ? AND (transcription IS NULL OR transcription = '');
`
	_, err := r.db.ExecContext(ctx, q, text, id)
	return err
}

// CompleteDone writes status, report_data and transcription in one
// statement so readers see either the pre- or post-update snapshot, never a
// partial one.
func (r *AnalysisRepository) CompleteDone(ctx context.Context, id domain.AnalysisID, report *domain.ReportData, transcription string) (bool, error) {
	raw, err := marshalReport(report)
	if err != nil {
		return false, err
	}
	const q = `
UPDATE call_analyses
SET status = ?, report_data = ?, transcription = ?
WHERE id = ? AND status = ?;
`
	res, err := r.db.ExecContext(ctx, q, domain.StatusDone, raw, nullString(transcription), id, domain.StatusProcessing)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CompleteError writes the terminal error payload, same CAS rule as
// CompleteDone.
func (r *AnalysisRepository) CompleteError(ctx context.Context, id domain.AnalysisID, message string) (bool, error) {
	raw, err := marshalReport(domain.ErrorReport(message))
	if err != nil {
		return false, err
	}
	const q = `
UPDATE call_analyses
SET status = ?, report_data = ?
WHERE id = ? AND status = ?;
`
	res, err := r.db.ExecContext(ctx, q, domain.StatusError, raw, id, domain.StatusProcessing)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// rowScanner covers both *sql.Row and *sql.Rows.
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
