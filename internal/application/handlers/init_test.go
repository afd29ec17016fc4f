package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/mocks"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

func TestInitHandler_Handle(t *testing.T) {
	dir := t.TempDir()
	manager := &mocks.IndexManager{}
	handler := NewInitHandler(manager, 1536)

	result, err := handler.Handle(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, config.ConfigFilePath(dir), result.ConfigPath)
	assert.Equal(t, config.StoreSQLite, result.StoreProvider)
	assert.Equal(t, config.RecallChromem, result.RecallBackend)
	assert.True(t, result.IndexReady)
	assert.Equal(t, 1, manager.EnsureIndexCallCount)
	assert.Equal(t, uint64(1536), manager.LastVectorSize)
	assert.True(t, config.Exists(dir))
}

func TestInitHandler_Handle_AlreadyInitialized(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.WriteDefault(dir))

	_, err := NewInitHandler(nil, 0).Handle(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestInitHandler_Handle_NoIndex(t *testing.T) {
	result, err := NewInitHandler(nil, 0).Handle(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.False(t, result.IndexReady)
}

func TestInitHandler_Handle_IndexError(t *testing.T) {
	manager := &mocks.IndexManager{EnsureErr: errors.New("connection refused")}

	_, err := NewInitHandler(manager, 3).Handle(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating index")
}
