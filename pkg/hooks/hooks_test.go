package hooks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/template"
)

func newRunner(t *testing.T, cli map[string]any) (*Runner, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	return &Runner{
		Renderer: template.NewRenderer(context.Background()),
		Context:  template.NewContext(map[string]any{"file": "global.txt"}, cli),
		Dir:      filepath.Join(t.TempDir(), "work"),
		Stdout:   &stdout,
		Stderr:   &bytes.Buffer{},
	}, &stdout
}

func TestHook_Decode(t *testing.T) {
	var hooks []Hook
	require.NoError(t, yaml.Unmarshal([]byte(`
- "  setup  "
- command: {name: greet, content: "echo {{ .name }}"}
  context: {name: sam}
`), &hooks))

	require.Len(t, hooks, 2)
	assert.Equal(t, "setup", hooks[0].Command.ID)
	assert.Equal(t, "greet", hooks[1].Command.TemplateName())
	assert.Equal(t, map[string]any{"name": "sam"}, hooks[1].Context.Plain())
}

func TestRun_BuiltinInterpreter(t *testing.T) {
	r, stdout := newRunner(t, nil)
	hooks := []Hook{
		Inline("write", `echo hello > {{ .file }}`),
		{
			Command: template.Source{Name: "local", Content: `echo local > {{ .file }}`},
			Context: orderedmap.FromPairs[any](orderedmap.P[any]("file", "local.txt")),
		},
	}

	require.NoError(t, r.Run(context.Background(), hooks))

	content, err := os.ReadFile(filepath.Join(r.Dir, "global.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
	assert.FileExists(t, filepath.Join(r.Dir, "local.txt"))
	assert.Empty(t, stdout.String())
	assert.Equal(t, template.NoCliOverrides, r.Context.State())
}

func TestRun_CliOverridesWin(t *testing.T) {
	r, _ := newRunner(t, map[string]any{"file": "cli.txt"})
	hook := Hook{
		Command: template.Source{Name: "local", Content: `echo x > {{ .file }}`},
		Context: orderedmap.FromPairs[any](orderedmap.P[any]("file", "local.txt")),
	}

	require.NoError(t, r.Run(context.Background(), []Hook{hook}))

	assert.FileExists(t, filepath.Join(r.Dir, "cli.txt"))
	assert.NoFileExists(t, filepath.Join(r.Dir, "local.txt"))
}

func TestRun_PrintCmd(t *testing.T) {
	r, stdout := newRunner(t, nil)
	r.PrintCmd = true

	require.NoError(t, r.Run(context.Background(), []Hook{Inline("print", `echo {{ .file }}`)}))

	assert.Equal(t, "Rendered command:\necho global.txt\nglobal.txt\n", stdout.String())
}

func TestRun_ExitCode(t *testing.T) {
	r, _ := newRunner(t, nil)
	hooks := []Hook{Inline("fail", `exit 3`), Inline("never", `echo never > never.txt`)}

	err := r.Run(context.Background(), hooks)

	require.ErrorIs(t, err, errUtils.ErrShellCommandFailed)
	assert.Equal(t, "Shell command 'exit 3' failed with exit code: 3", err.Error())
	assert.Equal(t, 3, errUtils.GetExitCode(err))
	assert.NoFileExists(t, filepath.Join(r.Dir, "never.txt"))
}

func TestRun_ExternalShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	r, stdout := newRunner(t, nil)
	r.Shell = "sh"

	require.NoError(t, r.Run(context.Background(), []Hook{Inline("pwd", `echo "$0" {{ .file }}`)}))
	assert.Equal(t, "sh global.txt\n", stdout.String())

	err := r.Run(context.Background(), []Hook{Inline("fail", `exit 4`)})
	require.ErrorIs(t, err, errUtils.ErrShellCommandFailed)
	assert.Equal(t, "Shell command '-c exit 4' failed with exit code: 4", err.Error())
	assert.Equal(t, 4, errUtils.GetExitCode(err))
}

func TestRun_MissingShell(t *testing.T) {
	r, _ := newRunner(t, nil)
	r.Shell = filepath.Join(t.TempDir(), "no-such-shell")

	err := r.Run(context.Background(), []Hook{Inline("x", `echo x`)})

	require.ErrorIs(t, err, errUtils.ErrShellCommandFailed)
	assert.Contains(t, err.Error(), "Failed to execute shell command '-c echo x'")
}

func TestRun_DryRun(t *testing.T) {
	r, _ := newRunner(t, nil)
	r.DryRun = true

	require.NoError(t, r.Run(context.Background(), []Hook{Inline("write", `echo x > out.txt`)}))

	assert.NoDirExists(t, r.Dir)
}

func TestRun_UnknownTemplate(t *testing.T) {
	r, _ := newRunner(t, nil)

	err := r.Run(context.Background(), []Hook{FromID("ghost")})

	assert.ErrorIs(t, err, errUtils.ErrTemplateRendering)
}
