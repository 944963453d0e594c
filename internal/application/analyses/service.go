package analyses

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Idosegev23/GameChanger/internal/application"
	"github.com/Idosegev23/GameChanger/internal/domain/ai"
	domain "github.com/Idosegev23/GameChanger/internal/domain/analyses"
	"github.com/Idosegev23/GameChanger/internal/domain/taskerrors"
)

// Service implements the analysis use-cases. Safe for concurrent use; all
// lifecycle writes go through the repository's compare-and-set operations.
type Service struct {
	Repo        domain.Repository
	Recordings  domain.RecordingStore
	Transcriber ai.Transcriber
	Scorer      ai.Scorer
	DeadLetters taskerrors.Repository
	Clock       application.Clock
}

// Get returns one analysis by id.
func (s *Service) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, id)
}

// LatestByOwner returns the viewer's most recent analyses.
func (s *Service) LatestByOwner(ctx context.Context, userID string, limit int) ([]*domain.Analysis, error) {
	return s.Repo.LatestByOwner(ctx, userID, limit)
}

// TaskErrors returns the dead-letter entries recorded for one analysis.
func (s *Service) TaskErrors(ctx context.Context, id domain.AnalysisID, limit int) ([]*taskerrors.TaskError, error) {
	return s.DeadLetters.ListByAnalysis(ctx, string(id), limit)
}

// RecordingLink returns a short-lived playback URL for the analysis
// recording.
func (s *Service) RecordingLink(ctx context.Context, id domain.AnalysisID) (string, error) {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if a.RecordingURL == "" {
		return "", domain.ErrNoRecording
	}
	return s.Recordings.PresignedURL(ctx, a.RecordingURL, 15*time.Minute)
}

// ProcessUntilDone runs the full pipeline with context.Background() so the
// detached task survives the HTTP request that scheduled it.
func (s *Service) ProcessUntilDone(id domain.AnalysisID) error {
	return s.Process(context.Background(), id)
}

// Process runs the analysis pipeline for one record:
// claim (pending -> processing) -> fetch recording -> transcribe -> score ->
// parse -> atomic terminal write. Re-entrancy policy is no-op: when the
// claim fails because another run already owns the record (or it is
// terminal), Process returns nil without touching anything.
func (s *Service) Process(ctx context.Context, id domain.AnalysisID) error {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load analysis %s: %w", id, err)
	}

	claimed, err := s.Repo.MarkProcessing(ctx, id)
	if err != nil {
		return fmt.Errorf("claim analysis %s: %w", id, err)
	}
	if !claimed {
		log.Printf("analysis %s already %s, skipping", id, a.Status)
		return nil
	}

	transcript, err := s.transcript(ctx, a)
	if err != nil {
		return s.fail(ctx, id, "transcribe", err)
	}

	raw, err := s.Scorer.Score(ctx, string(a.Type), transcript)
	if err != nil {
		return s.fail(ctx, id, "score", err)
	}

	report, err := domain.ParseReportData(raw)
	if err != nil {
		return s.fail(ctx, id, "parse", err)
	}
	if !report.Complete() {
		return s.fail(ctx, id, "parse", fmt.Errorf("report payload incomplete: summary and analysis must be present together"))
	}

	done, err := s.Repo.CompleteDone(ctx, id, report, transcript)
	if err != nil {
		return s.fail(ctx, id, "persist", err)
	}
	if !done {
		// Terminal state already written by someone else; drop our result
		// rather than produce a duplicate terminal write.
		log.Printf("analysis %s reached a terminal state concurrently, result dropped", id)
	}
	return nil
}

// transcript reuses a stored transcription or produces one from the
// recording. The early SaveTranscription is best effort; the terminal write
// carries the transcript either way.
func (s *Service) transcript(ctx context.Context, a *domain.Analysis) (string, error) {
	if a.Transcription != "" {
		return a.Transcription, nil
	}
	if a.RecordingURL == "" {
		return "", fmt.Errorf("no transcription and no recording available")
	}

	local, err := s.Recordings.FetchToTemp(ctx, a.RecordingURL)
	if err != nil {
		return "", fmt.Errorf("fetch recording: %w", err)
	}
	defer os.Remove(local)

	text, err := s.Transcriber.Transcribe(ctx, local)
	if err != nil {
		return "", err
	}
	if err := s.Repo.SaveTranscription(ctx, a.ID, text); err != nil {
		log.Printf("save transcription for %s: %v", a.ID, err)
	}
	return text, nil
}

// fail dead-letters the task error and writes the terminal error state.
// The returned error is for the worker's log only; HTTP callers already got
// their 202 and never see it.
func (s *Service) fail(ctx context.Context, id domain.AnalysisID, phase string, cause error) error {
	if err := s.DeadLetters.Save(ctx, &taskerrors.TaskError{
		AnalysisID: string(id),
		Phase:      phase,
		Message:    cause.Error(),
		CreatedAt:  s.Clock.Now(),
	}); err != nil {
		log.Printf("dead-letter save for %s: %v", id, err)
	}

	wrote, err := s.Repo.CompleteError(ctx, id, cause.Error())
	if err != nil {
		log.Printf("write error state for %s: %v", id, err)
	} else if !wrote {
		log.Printf("analysis %s already terminal, error state not written", id)
	}
	return fmt.Errorf("%s %s: %w", phase, id, cause)
}
