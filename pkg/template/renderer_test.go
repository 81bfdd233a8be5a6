package template

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filematch"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func TestSetup_LoadsDirectoryAndInlineTemplates(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"greeting.j2":      `Hello {{ .name }}`,
		"nested/inc.j2":    `[{{ template "greeting.j2" . }}]`,
		"nested/plain.txt": `plain`,
	})
	inline := orderedmap.FromPairs(orderedmap.P("shout", `{{ .name | upper }}`))

	r, err := Setup(context.Background(), dir, inline)
	require.NoError(t, err)

	assert.True(t, r.Has("nested/plain.txt"))
	out, err := r.Render("nested/inc.j2", map[string]any{"name": "Sam"})
	require.NoError(t, err)
	assert.Equal(t, "[Hello Sam]", out)

	out, err = r.Render("shout", map[string]any{"name": "Sam"})
	require.NoError(t, err)
	assert.Equal(t, "SAM", out)
}

func TestSetup_InvalidInlineTemplate(t *testing.T) {
	_, err := Setup(context.Background(), "", orderedmap.FromPairs(orderedmap.P("broken", `{{ .x `)))

	require.ErrorIs(t, err, errUtils.ErrTemplateParsing)
	assert.Contains(t, err.Error(), "Failed to parse the template `broken`")
}

func TestRender_Errors(t *testing.T) {
	r := NewRenderer(context.Background())

	_, err := r.Render("ghost", nil)
	assert.ErrorIs(t, err, errUtils.ErrTemplateRendering)

	_, err = r.RenderString("strict", `{{ .missing }}`, map[string]any{})
	require.ErrorIs(t, err, errUtils.ErrTemplateRendering)
	assert.Contains(t, err.Error(), "Failed to render the template `strict`")
	assert.Equal(t, []string{"missing"}, r.MissingVars("strict", map[string]any{}))
}

func TestRenderToStdout_AddsNewline(t *testing.T) {
	r := NewRenderer(context.Background())
	var buf bytes.Buffer
	r.Stdout = &buf
	require.NoError(t, r.Add("x", `content`))

	require.NoError(t, r.RenderToStdout("x", nil))

	assert.Equal(t, "content\n", buf.String())
}

func TestRenderToPath_OverwritePolicy(t *testing.T) {
	r := NewRenderer(context.Background())
	require.NoError(t, r.Add("x", `x`))
	path := filepath.Join(t.TempDir(), "out", "foo.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	err := r.RenderToPath("x", nil, path, false)

	require.ErrorIs(t, err, errUtils.ErrFileExists)
	assert.Contains(t, err.Error(), "already exists")
	content, _ := os.ReadFile(path)
	assert.Equal(t, "keep", string(content))

	require.NoError(t, r.RenderToPath("x", nil, path, true))
	content, _ = os.ReadFile(path)
	assert.Equal(t, "x", string(content))
}

func TestRenderToPath_DryRun(t *testing.T) {
	r := NewRenderer(context.Background())
	r.DryRun = true
	require.NoError(t, r.Add("x", `x`))
	path := filepath.Join(t.TempDir(), "foo.txt")

	require.NoError(t, r.RenderToPath("x", nil, path, true))

	assert.NoFileExists(t, path)
}

func TestRenderTree(t *testing.T) {
	templatesDir := writeTemplates(t, map[string]string{
		"svc/README.md.j2":         `# {{ .name }}`,
		"svc/src/main.go.jinja":    `package {{ .name }}`,
		"svc/config/app.yaml":      `name: {{ .name }}`,
		"svc/skip/ignored.txt.j2":  `ignored`,
		"svc/empty/.keep.jinja2":   ``,
		"other/never-rendered.txt": `x`,
	})
	r, err := Setup(context.Background(), templatesDir, nil)
	require.NoError(t, err)
	excludes, err := filematch.Compile("svc/skip/*")
	require.NoError(t, err)
	out := t.TempDir()

	err = r.RenderTree("svc", templatesDir, excludes, map[string]any{"name": "demo"}, true, out)

	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# demo", string(content))
	assert.FileExists(t, filepath.Join(out, "src", "main.go"))
	assert.FileExists(t, filepath.Join(out, "config", "app.yaml"))
	assert.FileExists(t, filepath.Join(out, "empty", ".keep"))
	assert.DirExists(t, filepath.Join(out, "skip"))
	assert.NoFileExists(t, filepath.Join(out, "skip", "ignored.txt"))
	assert.NoFileExists(t, filepath.Join(out, "never-rendered.txt"))
}

func TestRenderTree_NotADirectory(t *testing.T) {
	templatesDir := writeTemplates(t, map[string]string{"file.txt": "x"})
	r := NewRenderer(context.Background())

	err := r.RenderTree("missing", templatesDir, nil, nil, true, t.TempDir())

	require.ErrorIs(t, err, errUtils.ErrNotADirectory)
	assert.Contains(t, err.Error(), "`missing` is not a valid directory inside")
}
