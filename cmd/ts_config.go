package cmd

import (
	"github.com/spf13/cobra"
)

var tsConfigCmd = &cobra.Command{
	Use:   "ts-config <preset> [output]",
	Short: "Write a tsconfig file from a preset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env(cmd).ExecuteTSConfigCmd(args[0], argOr(args, 1, ""))
	},
}

func init() {
	RootCmd.AddCommand(tsConfigCmd)
}
