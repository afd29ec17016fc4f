package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/mocks"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

type speechRecorder struct {
	mu    sync.Mutex
	texts []string
	errs  []*entities.SpeechError
	ends  int
}

func (r *speechRecorder) callbacks() SpeechCallbacks {
	return SpeechCallbacks{
		OnText: func(text string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.texts = append(r.texts, text)
		},
		OnError: func(err *entities.SpeechError) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
		OnEnd: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.ends++
		},
	}
}

func waitDone(t *testing.T, s *SpeechSession) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("speech session did not end")
	}
}

func interim(text string) ports.SpeechEvent {
	return ports.SpeechEvent{Results: []ports.SpeechResult{{Transcript: text}}}
}

func final(text string) ports.SpeechEvent {
	return ports.SpeechEvent{Results: []ports.SpeechResult{{Transcript: text, Final: true}}}
}

func TestStartSpeechSession_Unavailable(t *testing.T) {
	rec := &speechRecorder{}

	session := StartSpeechSession(&mocks.SpeechEngine{Unavailable: true}, "", rec.callbacks(), nil)

	assert.Nil(t, session)
	require.Len(t, rec.errs, 1)
	assert.Equal(t, entities.SpeechUnsupported, rec.errs[0].Kind)

	assert.Nil(t, StartSpeechSession(nil, "", SpeechCallbacks{}, nil))
}

func TestSpeechSession_StopDeliversFinalResult(t *testing.T) {
	engine := &mocks.SpeechEngine{
		Script:     []ports.SpeechEvent{final("今天"), interim("天气")},
		StopEvents: []ports.SpeechEvent{final("天气很好")},
	}
	rec := &speechRecorder{}
	session := StartSpeechSession(engine, "", rec.callbacks(), nil)
	require.NotNil(t, session)

	session.Start(context.Background())
	assert.Equal(t, DefaultSpeechLocale, engine.LastLocale)
	session.Stop()
	waitDone(t, session)

	assert.Equal(t, "今天天气很好", session.Text())
	assert.False(t, session.Running())
	assert.Equal(t, []string{"今天", "今天天气", "今天天气很好"}, rec.texts)
	assert.Equal(t, 1, rec.ends)
	assert.Equal(t, 1, engine.StopCallCount)
}

func TestSpeechSession_AbortDiscardsInterim(t *testing.T) {
	engine := &mocks.SpeechEngine{
		Script:     []ports.SpeechEvent{final("记录"), interim("一下")},
		StopEvents: []ports.SpeechEvent{final("不应出现")},
	}
	rec := &speechRecorder{}
	session := StartSpeechSession(engine, "zh-CN", rec.callbacks(), nil)
	require.NotNil(t, session)

	session.Start(context.Background())
	session.Abort()
	waitDone(t, session)

	assert.Equal(t, "记录", session.Text())
	assert.Equal(t, 1, engine.AbortCallCount)
	assert.Zero(t, engine.StopCallCount)
	assert.Equal(t, 1, rec.ends)
}

func TestSpeechSession_StartWhileRunningIsNoop(t *testing.T) {
	engine := &mocks.SpeechEngine{}
	session := StartSpeechSession(engine, "", SpeechCallbacks{}, nil)
	require.NotNil(t, session)

	session.Start(context.Background())
	session.Start(context.Background())
	assert.Equal(t, 1, engine.StartCallCount)

	session.Stop()
	waitDone(t, session)

	session.Start(context.Background())
	assert.Equal(t, 2, engine.StartCallCount)
	session.Abort()
	waitDone(t, session)
}

func TestSpeechSession_EngineError(t *testing.T) {
	engine := &mocks.SpeechEngine{
		Script: []ports.SpeechEvent{
			{Err: entities.SpeechErrorFromCode("no-speech")},
			{End: true},
		},
	}
	rec := &speechRecorder{}
	session := StartSpeechSession(engine, "", rec.callbacks(), nil)
	require.NotNil(t, session)

	session.Start(context.Background())
	waitDone(t, session)

	require.Len(t, rec.errs, 1)
	assert.Equal(t, entities.SpeechNoSpeechDetected, rec.errs[0].Kind)
	assert.Equal(t, 1, rec.ends)
	assert.False(t, session.Running())
}

func TestSpeechSession_StartFailure(t *testing.T) {
	engine := &mocks.SpeechEngine{StartErr: errors.New("device busy")}
	rec := &speechRecorder{}
	session := StartSpeechSession(engine, "", rec.callbacks(), nil)
	require.NotNil(t, session)

	session.Start(context.Background())

	assert.False(t, session.Running())
	require.Len(t, rec.errs, 1)
	assert.Equal(t, entities.SpeechStartFailed, rec.errs[0].Kind)
	assert.Zero(t, rec.ends)
}
