package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
)

// newCmd writes the default configuration.
var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Write the default configuration file",
	Long:  "Write the default configuration to the given path. The format (yaml, toml or json) follows the file extension.",
	Example: "sketch new\n" +
		"sketch new sketch.toml",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env(cmd).ExecuteNewCmd(argOr(args, 0, e.DefaultConfigFile))
	},
}

func init() {
	RootCmd.AddCommand(newCmd)
}
