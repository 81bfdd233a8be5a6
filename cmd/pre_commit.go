package cmd

import (
	"github.com/spf13/cobra"
)

var preCommitCmd = &cobra.Command{
	Use:   "pre-commit <preset> [output]",
	Short: "Write a .pre-commit-config.yaml file from a preset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env(cmd).ExecutePreCommitCmd(args[0], argOr(args, 1, ""))
	},
}

func init() {
	RootCmd.AddCommand(preCommitCmd)
}
