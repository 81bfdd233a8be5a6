package gitignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/preset"
)

func decodeStore(t *testing.T, doc string) *Store {
	t.Helper()
	store := &Store{}
	require.NoError(t, yaml.Unmarshal([]byte(doc), store))
	return store
}

func TestConfig_Decode(t *testing.T) {
	store := decodeStore(t, `
lines: [target, dist]
text: |
  node_modules
  .env
mapped:
  content: [a]
`)

	lines, _ := store.Get("lines")
	assert.Equal(t, []string{"target", "dist"}, lines.Config.Lines)

	text, _ := store.Get("text")
	assert.Equal(t, []string{"node_modules", ".env"}, text.Config.AsLines())

	mapped, _ := store.Get("mapped")
	assert.Equal(t, []string{"a"}, mapped.Config.Lines)
}

func TestResolve_RightLinesFirst(t *testing.T) {
	store := decodeStore(t, `
base: [target]
rust:
  extends_presets: [base]
  content: [Cargo.lock]
`)

	got, ok, err := Resolve(&Setting{Ref: preset.Ref[Preset]{ID: "rust"}}, store)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Cargo.lock\ntarget", got.String())
}

func TestResolve_Toggle(t *testing.T) {
	got, ok, err := Resolve(preset.EnabledToggle[Preset](true), nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, got.String(), "node_modules")

	_, ok, err = Resolve(preset.EnabledToggle[Preset](false), nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Resolve(&Setting{Ref: preset.Ref[Preset]{ID: "ghost"}}, &Store{})
	assert.ErrorIs(t, err, errUtils.ErrPresetNotFound)
}

func TestConfig_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, Config{Lines: []string{"a", "b"}}.Write(path, true))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", string(out))
}
