package ai

import (
	"context"
	"errors"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error
// (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// Transcriber turns a local audio file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Scorer evaluates a call transcript against the rubric for the given
// analysis type and returns the raw JSON answer.
type Scorer interface {
	Score(ctx context.Context, analysisType, transcript string) (string, error)
}
