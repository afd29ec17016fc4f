package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

// Transcriber implements ports.SpeechEngine by sending a recorded audio file
// to the Whisper transcription endpoint. It yields one final result.
type Transcriber struct {
	client    *openai.Client
	model     string
	audioPath string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewTranscriber creates a transcriber for the audio file at audioPath.
func NewTranscriber(llm config.LLMConfig, speech config.SpeechConfig, audioPath string) (*Transcriber, error) {
	if llm.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := openai.Whisper1
	if speech.Model != "" {
		model = speech.Model
	}

	return &Transcriber{
		client:    newOpenAIClient(llm.APIKey, llm.BaseURL),
		model:     model,
		audioPath: audioPath,
	}, nil
}

// Available reports whether the audio file can be read.
func (t *Transcriber) Available() bool {
	info, err := os.Stat(t.audioPath)
	return err == nil && !info.IsDir()
}

// Start uploads the audio and streams the outcome.
func (t *Transcriber) Start(ctx context.Context, locale string) (<-chan ports.SpeechEvent, error) {
	if _, err := os.Stat(t.audioPath); err != nil {
		return nil, fmt.Errorf("opening audio: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	events := make(chan ports.SpeechEvent, 2)
	go func() {
		defer close(events)
		defer cancel()

		resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    t.model,
			FilePath: t.audioPath,
			Language: whisperLanguage(locale),
		})
		switch {
		case ctx.Err() != nil:
			// aborted
		case err != nil:
			events <- ports.SpeechEvent{Err: speechError(err)}
		case strings.TrimSpace(resp.Text) == "":
			events <- ports.SpeechEvent{Err: &entities.SpeechError{Kind: entities.SpeechNoSpeechDetected}}
		default:
			events <- ports.SpeechEvent{Results: []ports.SpeechResult{{Transcript: strings.TrimSpace(resp.Text), Final: true}}}
		}
		events <- ports.SpeechEvent{End: true}
	}()

	return events, nil
}

// Stop lets the pending transcription finish.
func (t *Transcriber) Stop() {}

// Abort cancels the request; no result is delivered.
func (t *Transcriber) Abort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
}

// whisperLanguage converts a BCP 47 locale such as zh-CN to the ISO-639-1
// code Whisper expects.
func whisperLanguage(locale string) string {
	lang, _, _ := strings.Cut(locale, "-")
	return strings.ToLower(lang)
}

func speechError(err error) *entities.SpeechError {
	var apiErr *openai.APIError
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr) && (apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403):
		return &entities.SpeechError{Kind: entities.SpeechPermissionDenied, Detail: apiErr.Message}
	case errors.As(err, &netErr):
		return &entities.SpeechError{Kind: entities.SpeechNetworkError, Detail: err.Error()}
	case errors.Is(err, os.ErrNotExist):
		return &entities.SpeechError{Kind: entities.SpeechAudioCaptureUnavailable, Detail: err.Error()}
	default:
		return &entities.SpeechError{Kind: entities.SpeechUnknown, Detail: err.Error()}
	}
}
