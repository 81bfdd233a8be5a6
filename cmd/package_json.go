package cmd

import (
	"github.com/spf13/cobra"
)

var packageJSONCmd = &cobra.Command{
	Use:   "package-json <preset> [output]",
	Short: "Write a package.json file from a preset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env(cmd).ExecutePackageJSONCmd(args[0], argOr(args, 1, ""))
	},
}

func init() {
	RootCmd.AddCommand(packageJSONCmd)
}
