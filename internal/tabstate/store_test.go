package tabstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "countries", s.Get("geo", "countries"))
}

func TestStore_SetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("geo", "cities"))
	require.NoError(t, s.Set("projects", "tickets"))
	require.NoError(t, s.Set("geo", "streets"))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "streets", reopened.Get("geo", "countries"))
	assert.Equal(t, "tickets", reopened.Get("projects", ""))
	assert.Equal(t, "", reopened.Get("customers", ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "geo: streets")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestStore_RejectsEmptyPage(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	assert.Error(t, s.Set("", "x"))
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tabs: [not, a, map"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}
