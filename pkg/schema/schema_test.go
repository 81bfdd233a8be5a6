package schema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filetype"
	"github.com/cloudposse/sketch/pkg/npm"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/precommit"
	"github.com/cloudposse/sketch/pkg/ts"
)

func decode(t *testing.T, doc string) Configuration {
	t.Helper()
	var c Configuration
	require.NoError(t, yaml.Unmarshal([]byte(doc), &c))
	return c
}

func TestConfiguration_Merge(t *testing.T) {
	left := decode(t, `
shell: bash
no_overwrite: true
extends: [a.yaml]
vars:
  name: left
  kept: true
gitignore_presets:
  node:
    content: [node_modules]
typescript:
  package_manager: npm
`)
	right := decode(t, `
extends: [b.yaml, a.yaml]
vars:
  name: right
  added: 1
gitignore_presets:
  rust:
    content: [target]
typescript:
  catalog: true
`)

	merged := left.Merge(right)
	assert.Equal(t, "bash", merged.Shell)
	assert.False(t, merged.CanOverwrite())
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, merged.Extends.Items())
	assert.Equal(t, []string{"name", "kept", "added"}, merged.Vars.Keys())
	name, _ := merged.Vars.Get("name")
	assert.Equal(t, "right", name)
	assert.Equal(t, []string{"node", "rust"}, merged.GitignorePresets.Keys())
	assert.Equal(t, ts.Npm, merged.Typescript.PackageManager)
	assert.True(t, merged.Typescript.UsesCatalog())

	// The inputs are left untouched.
	assert.Equal(t, 2, left.Vars.Len())
	assert.Equal(t, 1, left.GitignorePresets.Len())
}

func TestConfiguration_MergeIsAssociative(t *testing.T) {
	a := decode(t, "vars: {x: 1, y: 1}\nshell: sh\n")
	b := decode(t, "vars: {y: 2, z: 2}\ntemplates_dir: /tmp/t\n")
	c := decode(t, "vars: {z: 3}\nshell: zsh\nextends: [c.yaml]\n")

	leftFirst := a.Merge(b).Merge(c)
	rightFirst := a.Merge(b.Merge(c))
	assert.Equal(t, leftFirst.Vars.Plain(), rightFirst.Vars.Plain())
	assert.Equal(t, leftFirst.Vars.Keys(), rightFirst.Vars.Keys())
	assert.Equal(t, leftFirst.Shell, rightFirst.Shell)
	assert.Equal(t, leftFirst.TemplatesDir, rightFirst.TemplatesDir)
	assert.Equal(t, leftFirst.Extends.Items(), rightFirst.Extends.Items())
}

func TestConfiguration_CanOverwrite(t *testing.T) {
	assert.True(t, Configuration{}.CanOverwrite())
	assert.True(t, decode(t, "no_overwrite: false").CanOverwrite())
	assert.False(t, decode(t, "no_overwrite: true").CanOverwrite())
}

func TestConfiguration_PresetLookups(t *testing.T) {
	c := decode(t, `
gitignore_presets:
  base:
    content: [dist]
  node:
    extends_presets: [base]
    content: [node_modules]
pre_commit_presets:
  lint:
    repos:
      - repo: local
`)

	ignore, err := c.GitignorePreset("node")
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules", "dist"}, ignore.AsLines())

	preCommit, err := c.PreCommitPreset("lint")
	require.NoError(t, err)
	assert.Equal(t, []precommit.Repo{{Repo: "local"}}, preCommit.Repos)

	_, err = c.GitignorePreset("missing")
	assert.ErrorIs(t, err, errUtils.ErrPresetNotFound)
}

func TestDefault_Write(t *testing.T) {
	for _, name := range []string{"sketch.yaml", "sketch.json", "sketch.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Default().Write(path, true))

			var c Configuration
			require.NoError(t, filetype.DecodeFile(path, &c))
			assert.Equal(t, ts.Pnpm, c.Typescript.PackageManager)
			assert.Equal(t, npm.RangeMinor, c.Typescript.VersionRange)
			assert.True(t, c.GitignorePresets.Has("default"))
			assert.True(t, c.PreCommitPresets.Has("default"))
			assert.True(t, c.CanOverwrite())
		})
	}
}

func TestDefault_WriteRejectsUnknownFormat(t *testing.T) {
	err := Default().Write(filepath.Join(t.TempDir(), "sketch.ini"), true)
	assert.ErrorIs(t, err, errUtils.ErrInvalidConfigFormat)
}

func TestDefault_WriteJSONKeepsOrder(t *testing.T) {
	c := Configuration{Vars: orderedmap.FromPairs[any](orderedmap.P[any]("zeta", 1), orderedmap.P[any]("alpha", 2))}
	path := filepath.Join(t.TempDir(), "sketch.json")
	require.NoError(t, c.Write(path, true))

	var out Configuration
	require.NoError(t, filetype.DecodeFile(path, &out))
	assert.Equal(t, []string{"zeta", "alpha"}, out.Vars.Keys())
}
