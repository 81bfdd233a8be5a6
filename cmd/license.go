package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudposse/sketch/pkg/license"
)

// licenseCmd writes one of the bundled license texts.
var licenseCmd = &cobra.Command{
	Use:       "license <name>",
	Short:     "Write a license file",
	Example:   "sketch license MIT -o LICENSE",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(license.Apache2), string(license.GPL3), string(license.MPL2), string(license.MIT)},
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := license.Parse(args[0])
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		return env(cmd).ExecuteLicenseCmd(l, output)
	},
}

func init() {
	licenseCmd.Flags().StringP("output", "o", "", "The output file")

	RootCmd.AddCommand(licenseCmd)
}
