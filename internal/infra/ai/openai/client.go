package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Idosegev23/GameChanger/internal/domain/ai"
	"github.com/Idosegev23/GameChanger/internal/infra/ai/prompt"
)

const maxTokens = 4096

type Client struct {
	*openai.Client
	Model           string
	TranscribeModel string
}

func NewClient(apiKey, model, transcribeModel string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, TranscribeModel: transcribeModel}
}

// Transcribe runs Whisper over a local audio file.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	model := c.TranscribeModel
	if model == "" {
		model = openai.Whisper1
	}
	resp, err := c.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", wrapErr("transcription", err)
	}
	return resp.Text, nil
}

// Score asks the chat model for a rubric evaluation of the transcript and
// returns the raw JSON answer.
func (c *Client) Score(ctx context.Context, analysisType, transcript string) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4-turbo"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System(analysisType)},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User(transcript)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapErr("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func wrapErr(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", op, ai.ErrQuotaExceeded)
	}
	return fmt.Errorf("failed to create %s: %w", op, err)
}
