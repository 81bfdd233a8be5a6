package cmd

import (
	"github.com/spf13/cobra"
)

var pnpmWorkspaceCmd = &cobra.Command{
	Use:   "pnpm-workspace <preset> [output]",
	Short: "Write a pnpm-workspace.yaml file from a preset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env(cmd).ExecutePnpmWorkspaceCmd(args[0], argOr(args, 1, ""))
	},
}

func init() {
	RootCmd.AddCommand(pnpmWorkspaceCmd)
}
