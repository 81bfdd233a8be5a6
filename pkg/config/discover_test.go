package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	cwd := t.TempDir()
	xdgHome := t.TempDir()
	t.Chdir(cwd)
	t.Setenv("SKETCH_XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", xdgHome)

	path, ok := Discover("", false)
	assert.False(t, ok)
	assert.Empty(t, path)

	xdgConfig := filepath.Join(xdgHome, "sketch", "sketch.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(xdgConfig), 0o755))
	require.NoError(t, os.WriteFile(xdgConfig, []byte("shell = \"sh\"\n"), 0o644))

	path, ok = Discover("", false)
	assert.True(t, ok)
	assert.Equal(t, xdgConfig, path)

	require.NoError(t, os.WriteFile(filepath.Join(cwd, "sketch.json"), []byte("{}"), 0o644))
	path, ok = Discover("", false)
	assert.True(t, ok)
	assert.Equal(t, "sketch.json", filepath.Base(path))
	assert.NotEqual(t, xdgConfig, path)

	_, ok = Discover("", true)
	assert.False(t, ok, "ignore skips discovery")

	path, ok = Discover("custom.yaml", true)
	assert.True(t, ok, "an explicit path wins over ignore")
	assert.Equal(t, "custom.yaml", path)
}

func TestSearchConfigFile_Priority(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sketch.json", "sketch.toml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	path, ok := SearchConfigFile(dir)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "sketch.toml"), path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sketch.yaml"), nil, 0o644))
	path, _ = SearchConfigFile(dir)
	assert.Equal(t, filepath.Join(dir, "sketch.yaml"), path)
}
