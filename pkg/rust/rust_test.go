package rust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/gitignore"
	"github.com/cloudposse/sketch/pkg/license"
)

const config = `
manifest_presets:
  base:
    package:
      edition: "2024"
      license: MIT
  cli:
    extends_presets: [base]
    dependencies:
      clap: {version: "4", features: [derive]}
crate_presets:
  lib:
    manifest: base
    license: MIT
  bin:
    extends_presets: [lib]
    manifest: cli
    gitignore: true
`

func decodeConfig(t *testing.T) Config {
	t.Helper()
	var c Config
	require.NoError(t, yaml.Unmarshal([]byte(config), &c))
	return c
}

func TestLookupManifest(t *testing.T) {
	c := decodeConfig(t)

	m, err := c.LookupManifest("cli")
	require.NoError(t, err)
	assert.Equal(t, "2024", m.Package.Edition.Value)
	assert.Equal(t, []string{"derive"}, m.Dependencies["clap"].Features)

	_, err = c.LookupManifest("missing")
	assert.ErrorIs(t, err, errUtils.ErrPresetNotFound)
}

func TestResolveCrate(t *testing.T) {
	c := decodeConfig(t)

	cfg, err := c.LookupCrate("bin")
	require.NoError(t, err)
	assert.Equal(t, license.License("MIT"), cfg.License)

	crate, err := c.ResolveCrate(cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, crate.Manifest.Dependencies, "clap")
	require.NotNil(t, crate.Gitignore)
	assert.Equal(t, gitignore.Default().AsLines(), crate.Gitignore.AsLines())
}

func TestResolveCrate_InlineManifest(t *testing.T) {
	c := decodeConfig(t)

	var cfg CrateConfig
	require.NoError(t, yaml.Unmarshal([]byte(`
manifest:
  extends_presets: [base]
  package: {description: inline}
gitignore: false
`), &cfg))

	crate, err := c.ResolveCrate(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "inline", crate.Manifest.Package.Description.Value)
	assert.Equal(t, "MIT", crate.Manifest.Package.License.Value)
	assert.Nil(t, crate.Gitignore)
}

func TestLookupCrate_Empty(t *testing.T) {
	cfg, err := decodeConfig(t).LookupCrate("")
	require.NoError(t, err)
	assert.Nil(t, cfg.Manifest)

	crate, err := Config{}.ResolveCrate(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, crate.Manifest.Package)
}
