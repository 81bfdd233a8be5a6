// Package template renders sketch templates: single files, directory trees and remote repositories,
// with gomplate, sprig and sketch functions available to every template.
package template

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/hairyhenderson/gomplate/v3"
	"github.com/hairyhenderson/gomplate/v3/data"
	"github.com/samber/lo"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filematch"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/utils"
)

// templateExtensions are stripped from output file names in rendered trees.
var templateExtensions = []string{".j2", ".jinja", ".jinja2"}

// Renderer holds every template known to a command invocation in a single namespace,
// so templates can include each other by name.
type Renderer struct {
	root *template.Template

	// Stdout receives renders without an output path.
	Stdout io.Writer
	// DryRun logs the files that would be written instead of writing them.
	DryRun bool
}

// NewRenderer returns a renderer with gomplate, sprig and sketch functions, in that order of precedence
// from lowest to highest.
func NewRenderer(ctx context.Context) *Renderer {
	d := data.Data{}
	funcs := lo.Assign(gomplate.CreateFuncs(ctx, &d), sprig.TxtFuncMap(), FuncMap())

	return &Renderer{
		root:   template.New("").Funcs(funcs).Option("missingkey=error"),
		Stdout: os.Stdout,
	}
}

// Setup builds the renderer of a command: every file under templatesDir (when set) and every inline template.
func Setup(ctx context.Context, templatesDir string, templates *orderedmap.Map[string]) (*Renderer, error) {
	r := NewRenderer(ctx)
	if templatesDir != "" {
		if err := r.LoadDir(templatesDir); err != nil {
			return nil, err
		}
	}
	if err := r.AddAll(templates); err != nil {
		return nil, err
	}
	return r, nil
}

// Add parses body and registers it under name, replacing any template with the same name.
func (r *Renderer) Add(name, body string) error {
	if _, err := r.root.New(name).Parse(body); err != nil {
		return errUtils.NewTemplateParsingError(name, err)
	}
	log.Trace("Registered template", "name", name)
	return nil
}

func (r *Renderer) AddAll(templates *orderedmap.Map[string]) error {
	for name, body := range templates.All() {
		if err := r.Add(name, body); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir registers every file below dir under its slash-separated path relative to dir.
func (r *Renderer) LoadDir(dir string) error {
	log.Debug("Loading templates directory", "dir", dir)

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errUtils.NewReadError(path, err)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := utils.RelativePath(dir, path)
		if err != nil {
			return err
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return errUtils.NewReadError(path, err)
		}
		if _, err := r.root.New(rel).Parse(string(body)); err != nil {
			return errUtils.NewTemplateParsingError(rel,
				fmt.Errorf("Failed to load the templates directory: %w", err))
		}
		return nil
	})
}

// Has reports whether a template is registered under name.
func (r *Renderer) Has(name string) bool {
	return r.root.Lookup(name) != nil
}

// Render executes the template registered under name.
func (r *Renderer) Render(name string, vars map[string]any) (string, error) {
	t := r.root.Lookup(name)
	if t == nil {
		return "", errUtils.NewTemplateRenderingError(name, fmt.Errorf("template `%s` not found", name))
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		renderErr := errUtils.NewTemplateRenderingError(name, err)
		if missing := r.MissingVars(name, vars); len(missing) > 0 {
			return "", errUtils.Build(renderErr).
				WithHintf("These variables are not set: %s. Pass them with `--set` or `vars`", strings.Join(missing, ", ")).
				Err()
		}
		return "", renderErr
	}
	return buf.String(), nil
}

// RenderString registers body under name and renders it.
func (r *Renderer) RenderString(name, body string, vars map[string]any) (string, error) {
	if err := r.Add(name, body); err != nil {
		return "", err
	}
	return r.Render(name, vars)
}

// RenderToStdout prints the rendered template followed by a newline.
func (r *Renderer) RenderToStdout(name string, vars map[string]any) error {
	out, err := r.Render(name, vars)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.Stdout, out)
	return err
}

// RenderToPath renders the template into path through the overwrite policy.
func (r *Renderer) RenderToPath(name string, vars map[string]any, path string, overwrite bool) error {
	out, err := r.Render(name, vars)
	if err != nil {
		return err
	}
	if r.DryRun {
		log.Info("Would render template", "template", name, "output", path)
		return nil
	}
	log.Debug("Rendering template", "template", name, "output", path)
	return utils.WriteFile(path, []byte(out), overwrite)
}

// RenderTree renders templatesRoot/dir into outputRoot. Directories are mirrored; files lose a
// .j2, .jinja or .jinja2 extension and render with their path relative to templatesRoot as the template name.
// Excludes match paths relative to templatesRoot.
func (r *Renderer) RenderTree(
	dir string,
	templatesRoot string,
	excludes *filematch.Set,
	vars map[string]any,
	overwrite bool,
	outputRoot string,
) error {
	rootDir := filepath.Join(templatesRoot, dir)
	if ok, err := utils.IsDirectory(rootDir); err != nil || !ok {
		return errUtils.Build(errUtils.Errorf(errUtils.ErrNotADirectory,
			"`%s` is not a valid directory inside `%s`", dir, templatesRoot)).
			WithHint("Structured templates must point at a directory relative to `templates_dir`").
			Err()
	}

	return filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errUtils.NewReadError(path, err)
		}
		name, err := utils.RelativePath(templatesRoot, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil || rel == "." {
			return err
		}
		if excludes.Match(name) {
			log.Trace("Skipping excluded template", "template", name)
			return nil
		}

		output := filepath.Join(outputRoot, rel)
		if d.IsDir() {
			if r.DryRun {
				return nil
			}
			return utils.EnsureDir(output)
		}

		for _, ext := range templateExtensions {
			if trimmed, ok := strings.CutSuffix(output, ext); ok {
				output = trimmed
				break
			}
		}
		return r.RenderToPath(name, vars, output, overwrite)
	})
}
