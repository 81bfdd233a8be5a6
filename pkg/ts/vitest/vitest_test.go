package vitest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
)

func TestWrite_Defaults(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, NewWriter(context.Background(), true).Write(root, Config{}))

	config, err := os.ReadFile(filepath.Join(root, "tests", ConfigFile))
	require.NoError(t, err)
	assert.Contains(t, string(config), `setupFiles: ["setup/tests_setup.ts"]`)
	assert.Contains(t, string(config), `"@": "../src"`)
	assert.NotContains(t, string(config), "plugins:")
	assert.FileExists(t, filepath.Join(root, "tests", "setup", SetupFile))
}

func TestWrite_PluginsAndOutDir(t *testing.T) {
	root := t.TempDir()
	c := Config{OutDir: ".", Plugins: []string{"@sveltejs/vite-plugin-svelte"}}

	require.NoError(t, NewWriter(context.Background(), true).Write(root, c))

	config, err := os.ReadFile(filepath.Join(root, ConfigFile))
	require.NoError(t, err)
	assert.Contains(t, string(config), `import vitePluginSvelte from "@sveltejs/vite-plugin-svelte";`)
	assert.Contains(t, string(config), "plugins: [vitePluginSvelte()],")
	assert.Contains(t, string(config), `setupFiles: ["tests/setup/tests_setup.ts"]`)
	assert.Contains(t, string(config), `"@": "src"`)
}

func TestWrite_DryRun(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(context.Background(), true)
	w.DryRun = true

	require.NoError(t, w.Write(root, Config{}))

	assert.NoDirExists(t, filepath.Join(root, "tests"))
}

func TestResolve(t *testing.T) {
	store := orderedmap.New[Preset]()
	require.NoError(t, yaml.Unmarshal([]byte(`
svelte:
  plugins: ["@sveltejs/vite-plugin-svelte"]
  tests_dir: unit
`), store))

	c, ok, err := Resolve(&Setting{Ref: preset.Ref[Preset]{ID: "svelte"}}, preset.InlinedDefinitionID, store)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "unit", c.TestsDir)
	assert.Equal(t, "setup", c.SetupDir)

	c, ok, err = Resolve(preset.EnabledToggle[Preset](true), preset.InlinedDefinitionID, store)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tests", c.TestsDir)

	_, ok, err = Resolve(preset.EnabledToggle[Preset](false), preset.InlinedDefinitionID, store)
	require.NoError(t, err)
	assert.False(t, ok)
}
