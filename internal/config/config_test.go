package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAtMissingFile(t *testing.T) {
	store := openAt(filepath.Join(t.TempDir(), "nonexistent"))
	assert.Empty(t, store.URL())
	assert.Empty(t, store.Token())
}

func TestSetCredentialsRoundtrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "zammad-tui")

	store := openAt(dir)
	require.NoError(t, store.SetCredentials("https://example.zammad.com", "secret"))

	// a fresh store sees the persisted values
	reopened := openAt(dir)
	assert.Equal(t, "https://example.zammad.com", reopened.URL())
	assert.Equal(t, "secret", reopened.Token())
	assert.Equal(t, dir, reopened.Dir())

	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestSetCredentialsOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "zammad-tui")

	store := openAt(dir)
	require.NoError(t, store.SetCredentials("https://old.example.com", "old"))
	require.NoError(t, store.SetCredentials("https://new.example.com", "new"))

	reopened := openAt(dir)
	assert.Equal(t, "https://new.example.com", reopened.URL())
	assert.Equal(t, "new", reopened.Token())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	assert.Empty(t, store.URL())
	assert.Empty(t, store.Dir())

	require.NoError(t, store.SetCredentials("https://example.zammad.com", "secret"))
	assert.Equal(t, "https://example.zammad.com", store.URL())
	assert.Equal(t, "secret", store.Token())
	assert.Empty(t, store.Dir(), "an in-memory store has no directory")
}
