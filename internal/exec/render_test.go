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

func TestExecuteRenderCmd(t *testing.T) {
	dir := tempDir(t)
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greeting.tmpl"), []byte("hi {{ .name }}"), 0o644))

	tests := []struct {
		name   string
		opts   RenderOptions
		output string
		want   string
		stdout string
	}{
		{
			name:   "inline content to a file",
			opts:   RenderOptions{Content: "name: {{ .name }}", Output: "out/app.txt"},
			output: "out/app.txt",
			want:   "name: app",
		},
		{
			name:   "file template to a file",
			opts:   RenderOptions{File: filepath.Join(dir, "greeting.tmpl"), Output: "greeting.txt"},
			output: "greeting.txt",
			want:   "hi app",
		},
		{
			name:   "stdout without output",
			opts:   RenderOptions{Content: "{{ .name }}"},
			stdout: "app\n",
		},
		{
			name:   "stdout flag wins over output",
			opts:   RenderOptions{Content: "{{ .name }}", Output: "ignored.txt", Stdout: true},
			stdout: "app\n",
		},
		{
			name:   "configured template",
			opts:   RenderOptions{Template: "hello", Output: "hello.txt"},
			output: "hello.txt",
			want:   "hello app",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, out := newTestEnv(t, "templates:\n  hello: \"hello {{ .name }}\"\n")
			e.Vars = map[string]any{"name": "app"}

			require.NoError(t, e.ExecuteRenderCmd(context.Background(), tt.opts))
			assert.Equal(t, tt.stdout, out.String())
			if tt.output != "" {
				assert.Equal(t, tt.want, readFile(t, filepath.Join(dir, filepath.FromSlash(tt.output))))
			}
		})
	}
	assert.NoFileExists(t, filepath.Join(dir, "ignored.txt"))
}

func TestExecuteRenderCmd_Preset(t *testing.T) {
	dir := tempDir(t)
	e, _ := newTestEnv(t, `
templating_presets:
  readme:
    templates:
      - template:
          name: readme
          content: "# {{ .project }}"
        output: README.md
`)
	e.Vars = map[string]any{"project": "sketch"}

	require.NoError(t, e.ExecuteRenderCmd(context.Background(), RenderOptions{Preset: "readme", Output: dir}))
	assert.Equal(t, "# sketch", readFile(t, filepath.Join(dir, "README.md")))
}

func TestExecuteRenderCmd_Errors(t *testing.T) {
	e, _ := newTestEnv(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, e.ExecuteRenderCmd(ctx, RenderOptions{}), errUtils.ErrMissingInput)
	assert.ErrorIs(t, e.ExecuteRenderCmd(ctx, RenderOptions{Preset: "readme"}), errUtils.ErrMissingOutput)
	assert.ErrorIs(t, e.ExecuteRenderCmd(ctx, RenderOptions{File: filepath.Join(tempDir(t), "missing")}), errUtils.ErrRead)
}

func TestExecuteExecCmd(t *testing.T) {
	dir := tempDir(t)
	e, out := newTestEnv(t, "")
	e.Vars = map[string]any{"name": "app"}

	require.NoError(t, e.ExecuteExecCmd(context.Background(), ExecOptions{
		Command:  "echo {{ .name }} > name.txt && echo done",
		Cwd:      filepath.Join(dir, "work"),
		PrintCmd: true,
	}))

	assert.Equal(t, "app\n", readFile(t, filepath.Join(dir, "work", "name.txt")))
	assert.Equal(t, "Rendered command:\necho app > name.txt && echo done\ndone\n", out.String())
}

func TestExecuteExecCmd_DryRun(t *testing.T) {
	dir := tempDir(t)
	e, out := newTestEnv(t, "")
	e.DryRun = true

	require.NoError(t, e.ExecuteExecCmd(context.Background(), ExecOptions{Command: "echo hi > file.txt", Cwd: dir}))
	assert.Empty(t, out.String())
	assert.NoFileExists(t, filepath.Join(dir, "file.txt"))
}
