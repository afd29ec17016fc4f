package mocks

import (
	"context"
	"sync"

	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// SpeechEngine is a scripted mock of ports.SpeechEngine. Script is emitted as
// soon as Start is called; StopEvents are emitted on Stop, followed by End.
// A scripted event with End set closes the stream.
type SpeechEngine struct {
	Unavailable bool
	StartErr    error
	Script      []ports.SpeechEvent
	StopEvents  []ports.SpeechEvent

	mu     sync.Mutex
	ch     chan ports.SpeechEvent
	closed bool

	// Call tracking
	StartCallCount int
	StopCallCount  int
	AbortCallCount int
	LastLocale     string
}

// Available reports whether the engine is usable.
func (m *SpeechEngine) Available() bool {
	return !m.Unavailable
}

// Start opens the event stream and emits Script.
func (m *SpeechEngine) Start(ctx context.Context, locale string) (<-chan ports.SpeechEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCallCount++
	m.LastLocale = locale
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	m.ch = make(chan ports.SpeechEvent, len(m.Script)+len(m.StopEvents)+1)
	m.closed = false
	for _, ev := range m.Script {
		m.emit(ev)
	}
	return m.ch, nil
}

// Stop emits StopEvents and ends the stream.
func (m *SpeechEngine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCallCount++
	for _, ev := range m.StopEvents {
		m.emit(ev)
	}
	m.emit(ports.SpeechEvent{End: true})
}

// Abort ends the stream without further results.
func (m *SpeechEngine) Abort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AbortCallCount++
	m.emit(ports.SpeechEvent{End: true})
}

func (m *SpeechEngine) emit(ev ports.SpeechEvent) {
	if m.ch == nil || m.closed {
		return
	}
	m.ch <- ev
	if ev.End {
		m.closed = true
		close(m.ch)
	}
}
