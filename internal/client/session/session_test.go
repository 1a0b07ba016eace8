package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewStore(path)

	token, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.Save("token1"))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	token, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "token1", token)

	require.NoError(t, s.Clear())

	token, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// clearing twice is fine
	require.NoError(t, s.Clear())
}
