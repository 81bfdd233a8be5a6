package cmd

import (
	"github.com/spf13/cobra"
)

// tsCmd groups the typescript commands.
var tsCmd = &cobra.Command{
	Use:   "ts",
	Short: "Create typescript packages and monorepos",
	Args:  cobra.NoArgs,
}

func init() {
	RootCmd.AddCommand(tsCmd)
}
