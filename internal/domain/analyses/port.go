package analyses

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecording indicates the analysis has no recording reference.
var ErrNoRecording = errors.New("recording not available")

// Repository port (interface for persistence).
//
// Lifecycle writes are compare-and-set: they only apply when the stored
// status still allows the transition, and report whether they did. That is
// what makes re-triggering idempotent: a second trigger finds the CAS
// already spent and backs off without touching report_data.
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
	LatestByOwner(ctx context.Context, userID string, limit int) ([]*Analysis, error)

	// MarkProcessing moves pending -> processing. Returns false when the
	// record is already processing or terminal.
	MarkProcessing(ctx context.Context, id AnalysisID) (bool, error)

	// SaveTranscription writes the transcript once, before the terminal
	// state if available. A second write is a no-op.
	SaveTranscription(ctx context.Context, id AnalysisID, text string) error

	// CompleteDone atomically writes status=done together with the report
	// payload and transcript. Returns false when the record was not in
	// processing (terminal result already written elsewhere).
	CompleteDone(ctx context.Context, id AnalysisID, report *ReportData, transcription string) (bool, error)

	// CompleteError atomically writes status=error with {error: message}.
	CompleteError(ctx context.Context, id AnalysisID, message string) (bool, error)
}

// RecordingStore port for the call audio referenced by recording_url.
type RecordingStore interface {
	// FetchToTemp downloads the recording to a temporary local file and
	// returns its path. The caller removes the file when done.
	FetchToTemp(ctx context.Context, recordingURL string) (string, error)

	// PresignedURL returns a time-limited GET link for playback.
	PresignedURL(ctx context.Context, recordingURL string, expiry time.Duration) (string, error)
}
