package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
	"github.com/cloudposse/sketch/pkg/license"
	"github.com/cloudposse/sketch/pkg/preset"
)

// argOr returns args[i], or def when the argument is missing.
func argOr(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}

func addDryRunFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Log the files and commands without writing or running anything")
}

// env returns the env of the current run with the --dry-run flag of cmd applied.
func env(cmd *cobra.Command) *e.Env {
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		runEnv.DryRun = dryRun
	}
	return runEnv
}

func addLicenseFlag(cmd *cobra.Command) {
	cmd.Flags().String("license", "", "Write a LICENSE file with the given SPDX identifier (Apache-2.0, GPL-3.0, MPL-2.0, MIT)")
}

// licenseFlag parses the --license flag. Unset means no license.
func licenseFlag(cmd *cobra.Command) (license.License, error) {
	s, _ := cmd.Flags().GetString("license")
	if s == "" {
		return "", nil
	}
	return license.Parse(s)
}

// addToggleFlags registers --<name> <id> and --no-<name>.
func addToggleFlags(cmd *cobra.Command, name, what string) {
	cmd.Flags().String(name, "", "The "+what+" preset to use")
	cmd.Flags().Bool("no-"+name, false, "Do not write the "+what+" file")
	cmd.MarkFlagsMutuallyExclusive(name, "no-"+name)
}

// toggleFlag returns the toggle selected by addToggleFlags flags, or nil when neither is set.
func toggleFlag[T any](cmd *cobra.Command, name string) *preset.Toggle[T] {
	if off, _ := cmd.Flags().GetBool("no-" + name); off {
		return preset.EnabledToggle[T](false)
	}
	if id, _ := cmd.Flags().GetString(name); id != "" {
		return &preset.Toggle[T]{Ref: preset.Ref[T]{ID: id}}
	}
	return nil
}
