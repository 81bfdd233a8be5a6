package cmd

import (
	"github.com/spf13/cobra"
)

var oxlintCmd = &cobra.Command{
	Use:   "oxlint <preset> [output]",
	Short: "Write a .oxlintrc.json file from a preset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env(cmd).ExecuteOxlintCmd(args[0], argOr(args, 1, ""))
	},
}

func init() {
	RootCmd.AddCommand(oxlintCmd)
}
