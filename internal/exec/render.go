package exec

import (
	"context"
	"os"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/template"
)

const (
	fromCLITemplate      = "__from_cli"
	fromFileTemplateBase = "__from_file_"
)

// RenderOptions drives `sketch render`. A preset wins over Template, Content and File, which are
// tried in that order.
type RenderOptions struct {
	Template string
	Content  string
	File     string
	Preset   string
	// Output is a file for single templates and the output root for presets.
	Output string
	// Stdout prints a single template even when an output is given.
	Stdout bool
}

// templateSource returns the template selected by an id, inline content or a file.
func templateSource(id, content, file string) (template.Source, error) {
	switch {
	case id != "":
		return template.Source{ID: id}, nil
	case content != "":
		return template.Source{Name: fromCLITemplate, Content: content}, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return template.Source{}, errUtils.NewReadError(file, err)
		}
		return template.Source{Name: fromFileTemplateBase + file, Content: string(data)}, nil
	default:
		return template.Source{}, errUtils.Errorf(errUtils.ErrMissingInput, "Missing id or content for template generation")
	}
}

// ExecuteRenderCmd renders a single template, or a whole templating preset into opts.Output.
func (e *Env) ExecuteRenderCmd(ctx context.Context, opts RenderOptions) error {
	if opts.Preset != "" {
		if opts.Output == "" {
			return errUtils.Build(errUtils.Errorf(errUtils.ErrMissingOutput, "The output path is required when using presets")).
				WithHint("Pass the directory the preset is rendered into as the last argument").
				Err()
		}
		return e.GenerateTemplates(ctx, []template.Ref{template.IDRef(opts.Preset)}, opts.Output)
	}

	src, err := templateSource(opts.Template, opts.Content, opts.File)
	if err != nil {
		return err
	}
	single := &template.Single{Template: src}
	if !opts.Stdout {
		single.Output = opts.Output
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errUtils.NewPathCanonicalizationError(".", err)
	}
	ref := template.Ref{Inline: &template.Preset{Templates: []template.Element{{Single: single}}}}
	return e.GenerateTemplates(ctx, []template.Ref{ref}, cwd)
}
