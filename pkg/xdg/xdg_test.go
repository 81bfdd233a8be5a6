package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/sketch/errors"
)

func TestBaseDirs_Precedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name     string
		env      string
		get      func() string
		fallback string
	}{
		{"config", "XDG_CONFIG_HOME", ConfigHome, filepath.Join(home, ".config")},
		{"data", "XDG_DATA_HOME", DataHome, filepath.Join(home, ".local", "share")},
		{"cache", "XDG_CACHE_HOME", CacheHome, filepath.Join(home, ".cache")},
		{"state", "XDG_STATE_HOME", StateHome, filepath.Join(home, ".local", "state")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, "")
			t.Setenv("SKETCH_"+tt.env, "")
			assert.Equal(t, tt.fallback, tt.get())

			t.Setenv(tt.env, "/xdg")
			assert.Equal(t, "/xdg", tt.get())

			t.Setenv("SKETCH_"+tt.env, "/override")
			assert.Equal(t, "/override", tt.get())
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("SKETCH_XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")

	assert.Equal(t, filepath.Join("/cfg", "sketch"), ConfigDir())
}

func TestGetXDGCacheDir_CreatesDirectory(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("SKETCH_XDG_CACHE_HOME", "")
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tempHome, ".cache"))

	dir, err := GetXDGCacheDir("remote", 0o755)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempHome, ".cache", "sketch", "remote"), dir)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestGetXDGConfigDir_MkdirError(t *testing.T) {
	tempHome := t.TempDir()
	blocker := filepath.Join(tempHome, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	t.Setenv("SKETCH_XDG_CONFIG_HOME", blocker)

	_, err := GetXDGConfigDir("x", 0o755)

	assert.ErrorIs(t, err, errUtils.ErrDirCreation)
}
