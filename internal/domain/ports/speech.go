package ports

import (
	"context"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// SpeechResult is one recognized segment.
type SpeechResult struct {
	Transcript string
	Final      bool
}

// SpeechEvent is a single message from a running engine: a batch of results
// changed since the previous event, an error, or the end of the session.
type SpeechEvent struct {
	Results []SpeechResult
	Err     *entities.SpeechError
	End     bool
}

// SpeechEngine is a speech-to-text capability.
type SpeechEngine interface {
	// Available reports whether the engine can run in the current environment.
	Available() bool

	// Start begins recognition. The channel is closed after an End event.
	Start(ctx context.Context, locale string) (<-chan SpeechEvent, error)

	// Stop ends gracefully; pending audio still produces a final result.
	Stop()

	// Abort ends immediately without further results.
	Abort()
}
