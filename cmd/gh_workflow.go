package cmd

import (
	"github.com/spf13/cobra"
)

// ghWorkflowCmd writes a workflow preset with its job and step presets resolved.
var ghWorkflowCmd = &cobra.Command{
	Use:     "gh-workflow <output>",
	Short:   "Write a github workflow from a preset",
	Example: "sketch gh-workflow -p ci .github/workflows/ci.yaml",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("preset")
		return env(cmd).ExecuteGhWorkflowCmd(id, args[0])
	},
}

func init() {
	ghWorkflowCmd.Flags().StringP("preset", "p", "", "The workflow preset")
	_ = ghWorkflowCmd.MarkFlagRequired("preset")

	RootCmd.AddCommand(ghWorkflowCmd)
}
