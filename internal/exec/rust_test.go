package exec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/sketch/errors"
)

const rustConfig = `
gitignore_presets:
  rust: [target]
rust:
  manifest_presets:
    base:
      package:
        edition: "2024"
    nested:
      extends_presets: [base]
      workspace:
        resolver: "3"
  crate_presets:
    lib:
      manifest: base
      gitignore: rust
      license: MIT
`

func TestExecuteRustCrateCmd(t *testing.T) {
	dir := filepath.Join(tempDir(t), "parser")
	e, _ := newTestEnv(t, rustConfig)

	require.NoError(t, e.ExecuteRustCrateCmd(context.Background(), RustCrateOptions{Dir: dir, Preset: "lib"}))

	manifest := readFile(t, filepath.Join(dir, "Cargo.toml"))
	assert.Contains(t, manifest, `name = "parser"`)
	assert.Contains(t, manifest, `edition = "2024"`)
	assert.Equal(t, "target", readFile(t, filepath.Join(dir, ".gitignore")))
	assert.FileExists(t, filepath.Join(dir, LicenseFile))

	err := e.ExecuteRustCrateCmd(context.Background(), RustCrateOptions{Dir: dir, Preset: "lib"})
	assert.ErrorIs(t, err, errUtils.ErrDirExists)
}

func TestExecuteRustCrateCmd_JoinsWorkspace(t *testing.T) {
	root := tempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[workspace]\nmembers = []\n"), 0o644))
	e, _ := newTestEnv(t, rustConfig)

	require.NoError(t, e.ExecuteRustCrateCmd(context.Background(), RustCrateOptions{
		Dir:    filepath.Join(root, "cli"),
		Preset: "lib",
		Name:   "my-cli",
	}))

	assert.Equal(t, "[workspace]\nmembers = [\n\t\"cli\",\n]\n", readFile(t, filepath.Join(root, "Cargo.toml")))
	assert.Contains(t, readFile(t, filepath.Join(root, "cli", "Cargo.toml")), `name = "my-cli"`)
}

func TestExecuteRustCrateCmd_OwnWorkspaceSkipsParent(t *testing.T) {
	root := tempDir(t)
	parent := "[workspace]\nmembers = []\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(parent), 0o644))
	e, _ := newTestEnv(t, rustConfig)

	require.NoError(t, e.ExecuteRustCrateCmd(context.Background(), RustCrateOptions{
		Dir:      filepath.Join(root, "tools"),
		Preset:   "lib",
		Manifest: "nested",
	}))

	assert.Equal(t, parent, readFile(t, filepath.Join(root, "Cargo.toml")))
	manifest := readFile(t, filepath.Join(root, "tools", "Cargo.toml"))
	assert.Contains(t, manifest, "[workspace]")
	assert.Contains(t, manifest, `name = "tools"`)
}
