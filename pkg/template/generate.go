package template

import (
	"context"
	"os"
	"path/filepath"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filematch"
	"github.com/cloudposse/sketch/pkg/git"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/utils"
)

// CloneFunc makes a shallow clone of repo into dir.
type CloneFunc func(ctx context.Context, repo, dir string) error

// Generator renders templating presets into an output root.
type Generator struct {
	Renderer     *Renderer
	Context      *Context
	TemplatesDir string
	Overwrite    bool
	// Clone defaults to a go-git shallow clone.
	Clone CloneFunc
	// ScratchDir receives remote clones. It defaults to <tmp>/sketch/repo and is emptied before each clone.
	ScratchDir string
}

func (g *Generator) clone() CloneFunc {
	if g.Clone != nil {
		return g.Clone
	}
	return git.Clone
}

func (g *Generator) scratchDir() string {
	if g.ScratchDir != "" {
		return g.ScratchDir
	}
	return filepath.Join(os.TempDir(), "sketch", "repo")
}

// Generate renders every element of presets, in order. Relative outputs are joined to outputRoot.
func (g *Generator) Generate(ctx context.Context, presets []Preset, outputRoot string) error {
	for _, p := range presets {
		for _, element := range p.Templates {
			if err := g.generateElement(ctx, p, element, outputRoot); err != nil {
				return err
			}
		}
	}
	g.Context.ApplyLocal(nil)
	return nil
}

func (g *Generator) generateElement(ctx context.Context, p Preset, element Element, outputRoot string) error {
	switch {
	case element.Single != nil:
		local := localVars(p.Context, element.Single.Context)
		return g.renderSingle(element.Single, g.Context.ApplyLocal(local), outputRoot)
	case element.Structured != nil:
		vars := g.Context.ApplyLocal(p.Context.Plain())
		return g.renderStructured(element.Structured, vars, outputRoot)
	case element.Remote != nil:
		vars := g.Context.ApplyLocal(p.Context.Plain())
		return g.renderRemote(ctx, element.Remote, vars, outputRoot)
	default:
		return nil
	}
}

func localVars(layers ...*orderedmap.Map[any]) map[string]any {
	out := make(map[string]any)
	for _, m := range layers {
		for k, v := range m.All() {
			out[k] = orderedmap.PlainValue(v)
		}
	}
	return out
}

func (g *Generator) renderSingle(s *Single, vars map[string]any, outputRoot string) error {
	name := s.Template.TemplateName()
	if s.Template.IsInline() {
		if err := g.Renderer.Add(name, s.Template.Content); err != nil {
			return err
		}
	}
	if s.Output == "" {
		return g.Renderer.RenderToStdout(name, vars)
	}
	return g.Renderer.RenderToPath(name, vars, utils.JoinAbsolutePathWithPath(outputRoot, s.Output), g.Overwrite)
}

func (g *Generator) renderStructured(s *Structured, vars map[string]any, outputRoot string) error {
	if g.TemplatesDir == "" {
		return errUtils.Build(errUtils.ErrTemplatesDirNotSet).
			WithHintf("Set `templates_dir` in the config file or pass `--templates-dir` to render `%s`", s.Dir).
			Err()
	}
	excludes, err := filematch.Compile(s.Exclude...)
	if err != nil {
		return err
	}
	return g.Renderer.RenderTree(s.Dir, g.TemplatesDir, excludes, vars, g.Overwrite, outputRoot)
}

func (g *Generator) renderRemote(ctx context.Context, r *Remote, vars map[string]any, outputRoot string) error {
	excludes, err := filematch.Compile(r.Exclude...)
	if err != nil {
		return err
	}

	scratch := g.scratchDir()
	if utils.PathExists(scratch) {
		if err := os.RemoveAll(scratch); err != nil {
			return errUtils.Wrapf(errUtils.ErrDirCreation, err, "Could not empty the directory `%s`: %v", scratch, err)
		}
	}
	if err := utils.EnsureDir(filepath.Dir(scratch)); err != nil {
		return err
	}
	if err := g.clone()(ctx, r.Repo, scratch); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(scratch, ".git")); err != nil {
		log.Warn("Could not remove the .git directory of the cloned repo", "dir", scratch, "error", err)
	}

	if err := g.Renderer.LoadDir(scratch); err != nil {
		return err
	}
	log.Debug("Rendering remote templates", "repo", r.Repo, "output", outputRoot)
	return g.Renderer.RenderTree(".", scratch, excludes, vars, g.Overwrite, outputRoot)
}
