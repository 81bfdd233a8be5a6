package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
)

// tsMonorepoCmd creates the root package of a typescript monorepo.
var tsMonorepoCmd = &cobra.Command{
	Use:   "monorepo [dir]",
	Short: "Create the root of a typescript monorepo",
	Long: `Create the root package of a typescript monorepo: package.json, tsconfig.json with the shared
tsconfig.options.json, .oxlintrc.json and, with pnpm, pnpm-workspace.yaml and the package directories.`,
	Example: "sketch ts monorepo --pnpm base ./acme",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := packageOverrides(cmd)
		if err != nil {
			return err
		}
		opts := e.TSMonorepoOptions{Dir: argOr(args, 0, ""), Overrides: overrides}
		opts.RootPackage, _ = cmd.Flags().GetString("root-package")
		opts.Pnpm, _ = cmd.Flags().GetString("pnpm")
		opts.Oxlint, _ = cmd.Flags().GetBool("oxlint")
		opts.Install, _ = cmd.Flags().GetBool("install")
		return env(cmd).ExecuteTSMonorepoCmd(cmd.Context(), opts)
	},
}

func init() {
	tsMonorepoCmd.Flags().String("root-package", "", "The package preset of the root package")
	tsMonorepoCmd.Flags().String("pnpm", "", "The pnpm workspace preset. Defaults to packages/*")
	addPackageFlags(tsMonorepoCmd)

	tsCmd.AddCommand(tsMonorepoCmd)
}
