package cmd

import (
	"github.com/spf13/cobra"
)

var gitignoreCmd = &cobra.Command{
	Use:   "gitignore <preset> [output]",
	Short: "Write a .gitignore file from a preset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env(cmd).ExecuteGitignoreCmd(args[0], argOr(args, 1, ""))
	},
}

func init() {
	RootCmd.AddCommand(gitignoreCmd)
}
