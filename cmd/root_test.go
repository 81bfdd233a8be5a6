package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag of c and its subcommands back to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the command line and returns what it printed on stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)
	t.Cleanup(func() { resetFlags(RootCmd) })

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSettingsFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SKETCH_LOGS_LEVEL", "Off")
	t.Setenv("SKETCH_NO_OVERWRITE", "true")

	_, err := execute(t, "--ignore-config", "new", filepath.Join(dir, "sketch.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Off", settings.Logs.Level)
	assert.True(t, settings.NoOverwrite)
	assert.False(t, runEnv.Config.CanOverwrite())
	assert.FileExists(t, filepath.Join(dir, "sketch.yaml"))
}

func TestSettings_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--ignore-config", "--logs-level", "verbose", "new", filepath.Join(t.TempDir(), "sketch.yaml"))
	assert.Error(t, err)
}

func TestSetFlag_KeepsCommas(t *testing.T) {
	out, err := execute(t, "--ignore-config", "-S", `tags=["a","b"]`, "render", "--content", "{{ index .tags 1 }}")
	require.NoError(t, err)
	assert.Equal(t, "b\n", out)
}

func TestRenderCmd_NoOverwrite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out", "foo.txt"), []byte("keep"), 0o644))

	_, err := execute(t, "--ignore-config", "render", "--content", "x", "out/foo.txt", "--no-overwrite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(filepath.Join(dir, "out", "foo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestGitignoreCmd(t *testing.T) {
	dir := t.TempDir()
	config := writeConfig(t, dir, "gitignore_presets:\n  node: [node_modules, dist]\n")
	out := filepath.Join(dir, ".gitignore")

	_, err := execute(t, "-c", config, "gitignore", "node", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "node_modules\ndist", string(data))
}

func TestPrintConfig(t *testing.T) {
	dir := t.TempDir()
	config := writeConfig(t, dir, "shell: zsh\n")

	out, err := execute(t, "-c", config, "--print-config", "render", "--dry-run", "--content", "x", filepath.Join(dir, "x.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "shell: zsh")
	assert.NoFileExists(t, filepath.Join(dir, "x.txt"))
}

func TestTSBarrelCmd(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"nested/file1.ts", "nested/nested2/file2.ts", "index.ts"} {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	_, err := execute(t, "--ignore-config", "ts", "barrel", dir, "--exclude", "**/nested2/*", "--js-ext")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export * from \"nested/file1.js\";\n", string(data))
}

func TestDockerComposeCmd_InvalidService(t *testing.T) {
	_, err := execute(t, "--ignore-config", "docker-compose", "-s", "id=", filepath.Join(t.TempDir(), "compose.yaml"))
	assert.Error(t, err)
}

func TestArgOr(t *testing.T) {
	assert.Equal(t, "a", argOr([]string{"a"}, 0, "b"))
	assert.Equal(t, "b", argOr([]string{"a"}, 1, "b"))
}
