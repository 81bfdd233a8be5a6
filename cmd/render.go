package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
)

// renderCmd renders a single template or a templating preset.
var renderCmd = &cobra.Command{
	Use:   "render [output]",
	Short: "Render a template or a templating preset",
	Long: `Render a single template, given by id, inline content or file, to the output file or to stdout when
no output is given. With --preset, render every template of a templating preset under the output directory.`,
	Example: "sketch render --content '{{ .name }}' -S name='\"app\"'\n" +
		"sketch render -t readme README.md\n" +
		"sketch render -p service ./service",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := e.RenderOptions{Output: argOr(args, 0, "")}
		opts.Template, _ = flags.GetString("template")
		opts.Content, _ = flags.GetString("content")
		opts.File, _ = flags.GetString("file")
		opts.Preset, _ = flags.GetString("preset")
		opts.Stdout, _ = flags.GetBool("stdout")
		return env(cmd).ExecuteRenderCmd(cmd.Context(), opts)
	},
}

func init() {
	renderCmd.Flags().StringP("template", "t", "", "The id of a template in the templates directory or the config")
	renderCmd.Flags().String("content", "", "The template content")
	renderCmd.Flags().StringP("file", "f", "", "A file holding the template content")
	renderCmd.Flags().StringP("preset", "p", "", "The id of a templating preset")
	renderCmd.Flags().Bool("stdout", false, "Print the rendered template even when an output is given")
	renderCmd.MarkFlagsMutuallyExclusive("template", "content", "file", "preset")
	addDryRunFlag(renderCmd)

	RootCmd.AddCommand(renderCmd)
}
