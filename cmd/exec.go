package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
)

// execCmd renders a command template and runs it.
var execCmd = &cobra.Command{
	Use:   "exec [command]",
	Short: "Render a command template and run it",
	Long:  "Render a command, given inline, by template id or from a file, with the global context and run it with the configured shell.",
	Example: "sketch exec 'echo {{ .sketch_os }}'\n" +
		"sketch exec -t setup --cwd ./app",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := e.ExecOptions{Command: argOr(args, 0, "")}
		opts.File, _ = flags.GetString("file")
		opts.Template, _ = flags.GetString("template")
		opts.Cwd, _ = flags.GetString("cwd")
		opts.PrintCmd, _ = flags.GetBool("print-cmd")
		return env(cmd).ExecuteExecCmd(cmd.Context(), opts)
	},
}

func init() {
	execCmd.Flags().StringP("file", "f", "", "A file holding the command template")
	execCmd.Flags().StringP("template", "t", "", "The id of the command template")
	execCmd.Flags().String("cwd", "", "The directory the command runs in. It is created when missing")
	execCmd.Flags().Bool("print-cmd", false, "Print the rendered command before running it")
	execCmd.MarkFlagsMutuallyExclusive("file", "template")
	addDryRunFlag(execCmd)

	RootCmd.AddCommand(execCmd)
}
