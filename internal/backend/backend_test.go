package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkcopilot/internal/config"
	"bkcopilot/internal/store"
)

func TestTypeIsValid(t *testing.T) {
	assert.True(t, Type("sqlite").IsValid())
	assert.True(t, Type("memory").IsValid())
	assert.False(t, Type("sheets").IsValid())
	assert.False(t, Type("").IsValid())
}

func TestCreateRejectsUnknownBackend(t *testing.T) {
	_, err := NewFactory(nil).Create(&config.Config{StoreBackend: "postgres"})
	assert.Error(t, err)
}

func TestCreateMemoryBackend(t *testing.T) {
	result, err := NewFactory(nil).Create(&config.Config{
		StoreBackend: "memory",
		DataDir:      t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = result.Cleanup() })

	assert.Nil(t, result.AMQP)
	_, found, err := result.Store.Get(context.Background(), store.KeyClients)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateSQLiteBackend(t *testing.T) {
	result, err := NewFactory(nil).Create(&config.Config{
		StoreBackend: "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = result.Cleanup() })

	ctx := context.Background()
	require.NoError(t, result.Store.Set(ctx, store.KeyGoals, []byte(`[]`)))
	payload, found, err := result.Store.Get(ctx, store.KeyGoals)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[]`), payload)
}
