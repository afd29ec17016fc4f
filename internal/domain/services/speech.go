package services

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// DefaultSpeechLocale is used when no locale is configured.
const DefaultSpeechLocale = "zh-CN"

// SpeechCallbacks receive session output. Any of them may be nil.
// They are called from the session's event goroutine.
type SpeechCallbacks struct {
	// OnText receives the accumulated final text plus the current interim text.
	OnText  func(text string)
	OnError func(err *entities.SpeechError)
	OnEnd   func()
}

// SpeechSession drives one speech engine: start, stop (graceful) and abort.
type SpeechSession struct {
	engine    ports.SpeechEngine
	locale    string
	callbacks SpeechCallbacks
	logger    *log.Logger

	mu      sync.Mutex
	running bool
	aborted bool
	final   strings.Builder
	interim string
	done    chan struct{}
}

// StartSpeechSession returns a session over engine, or nil after reporting
// Unsupported through OnError when the engine is missing or unavailable.
func StartSpeechSession(engine ports.SpeechEngine, locale string, callbacks SpeechCallbacks, logger *log.Logger) *SpeechSession {
	if engine == nil || !engine.Available() {
		if callbacks.OnError != nil {
			callbacks.OnError(&entities.SpeechError{Kind: entities.SpeechUnsupported})
		}
		return nil
	}
	if locale == "" {
		locale = DefaultSpeechLocale
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	done := make(chan struct{})
	close(done)
	return &SpeechSession{
		engine:    engine,
		locale:    locale,
		callbacks: callbacks,
		logger:    logger,
		done:      done,
	}
}

// Start begins capture. It is a no-op while the session is running.
func (s *SpeechSession) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}

	events, err := s.engine.Start(ctx, s.locale)
	if err != nil {
		s.mu.Unlock()
		s.logger.Printf("speech start failed: %v", err)
		s.reportError(&entities.SpeechError{Kind: entities.SpeechStartFailed, Detail: err.Error()})
		return
	}

	s.running = true
	s.aborted = false
	s.final.Reset()
	s.interim = ""
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.consume(events, done)
}

// Stop ends capture gracefully; the engine still delivers a final result.
func (s *SpeechSession) Stop() {
	if s.Running() {
		s.engine.Stop()
	}
}

// Abort ends capture immediately and discards interim text.
func (s *SpeechSession) Abort() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.aborted = true
	s.interim = ""
	s.mu.Unlock()
	s.engine.Abort()
}

// Running reports whether capture is in progress.
func (s *SpeechSession) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Text returns the final text plus any interim text.
func (s *SpeechSession) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text()
}

// Done is closed when the current capture has ended.
func (s *SpeechSession) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *SpeechSession) consume(events <-chan ports.SpeechEvent, done chan struct{}) {
	defer close(done)
	defer s.finish()

	for ev := range events {
		if ev.Err != nil {
			s.reportError(ev.Err)
		}
		if len(ev.Results) > 0 {
			if text, ok := s.apply(ev.Results); ok && s.callbacks.OnText != nil {
				s.callbacks.OnText(text)
			}
		}
		if ev.End {
			return
		}
	}
}

// apply folds a batch of results into the buffers. After an abort only
// results the engine had already finalized are kept.
func (s *SpeechSession) apply(results []ports.SpeechResult) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interim = ""
	changed := false
	for _, r := range results {
		switch {
		case r.Final:
			s.final.WriteString(r.Transcript)
			changed = true
		case !s.aborted:
			s.interim += r.Transcript
			changed = true
		}
	}
	return s.text(), changed
}

func (s *SpeechSession) finish() {
	s.mu.Lock()
	s.running = false
	s.interim = ""
	s.mu.Unlock()
	if s.callbacks.OnEnd != nil {
		s.callbacks.OnEnd()
	}
}

func (s *SpeechSession) reportError(err *entities.SpeechError) {
	if s.callbacks.OnError != nil {
		s.callbacks.OnError(err)
	}
}

func (s *SpeechSession) text() string {
	return s.final.String() + s.interim
}
