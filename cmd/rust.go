package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
	"github.com/cloudposse/sketch/pkg/gitignore"
	"github.com/cloudposse/sketch/pkg/rust"
)

// rustCmd groups the rust commands.
var rustCmd = &cobra.Command{
	Use:   "rust",
	Short: "Create rust crates and manifests",
	Args:  cobra.NoArgs,
}

var rustCrateCmd = &cobra.Command{
	Use:   "crate <dir>",
	Short: "Create a rust crate in a new directory",
	Long: `Create a crate with its Cargo.toml, .gitignore, LICENSE and templates. When the parent directory holds a
workspace manifest, the crate is added to the workspace members and inherits the workspace package fields.`,
	Example: "sketch rust crate --preset lib crates/parser",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := licenseFlag(cmd)
		if err != nil {
			return err
		}
		opts := e.RustCrateOptions{
			Dir: args[0],
			Overrides: rust.CrateConfig{
				Gitignore: toggleFlag[gitignore.Preset](cmd, "gitignore"),
				License:   l,
			},
		}
		opts.Preset, _ = cmd.Flags().GetString("preset")
		opts.Manifest, _ = cmd.Flags().GetString("manifest")
		opts.Name, _ = cmd.Flags().GetString("name")
		return env(cmd).ExecuteRustCrateCmd(cmd.Context(), opts)
	},
}

var rustManifestCmd = &cobra.Command{
	Use:   "manifest <preset> [output]",
	Short: "Write a Cargo.toml file from a manifest preset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env(cmd).ExecuteRustManifestCmd(args[0], argOr(args, 1, ""))
	},
}

func init() {
	rustCrateCmd.Flags().StringP("preset", "p", "", "The crate preset")
	rustCrateCmd.Flags().String("manifest", "", "The manifest preset, replacing the one of the crate preset")
	rustCrateCmd.Flags().String("name", "", "The crate name. Defaults to the directory name")
	addToggleFlags(rustCrateCmd, "gitignore", ".gitignore")
	addLicenseFlag(rustCrateCmd)
	addDryRunFlag(rustCrateCmd)

	rustCmd.AddCommand(rustCrateCmd, rustManifestCmd)
	RootCmd.AddCommand(rustCmd)
}
