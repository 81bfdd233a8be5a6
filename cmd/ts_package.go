package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/ts"
	"github.com/cloudposse/sketch/pkg/ts/oxlint"
	"github.com/cloudposse/sketch/pkg/ts/packagejson"
	"github.com/cloudposse/sketch/pkg/ts/vitest"
)

// tsPackageCmd creates a typescript package.
var tsPackageCmd = &cobra.Command{
	Use:   "package [dir]",
	Short: "Create a typescript package",
	Long: `Create a typescript package with its package.json, tsconfig files, vitest setup, oxlint config, LICENSE
and templates. Inside a pnpm monorepo using catalogs, the default dependencies are added to the catalog of
pnpm-workspace.yaml.`,
	Example: "sketch ts package --preset lib packages/utils --update-tsconfig tsconfig.json\n" +
		"sketch ts package --app --no-vitest apps/web",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		overrides, err := packageOverrides(cmd)
		if err != nil {
			return err
		}
		if app, _ := flags.GetBool("app"); app {
			overrides.Kind = ts.App
		}
		if library, _ := flags.GetBool("library"); library {
			overrides.Kind = ts.Library
		}
		if id, _ := flags.GetString("vitest"); id != "" {
			overrides.Vitest = &vitest.Setting{Ref: preset.Ref[vitest.Preset]{ID: id}}
		}

		opts := e.TSPackageOptions{Dir: argOr(args, 0, ""), Overrides: overrides}
		opts.Preset, _ = flags.GetString("preset")
		opts.NoVitest, _ = flags.GetBool("no-vitest")
		opts.Oxlint, _ = flags.GetBool("oxlint")
		opts.UpdateTSConfig, _ = flags.GetStringArray("update-tsconfig")
		opts.Install, _ = flags.GetBool("install")
		return env(cmd).ExecuteTSPackageCmd(cmd.Context(), opts)
	},
}

// addPackageFlags registers the flags shared by `ts package` and `ts monorepo`.
func addPackageFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "The package name. Defaults to the directory name")
	cmd.Flags().String("package-json", "", "The package.json preset, replacing the one of the package preset")
	cmd.Flags().String("oxlint-preset", "", "The oxlint preset, replacing the one of the package preset")
	cmd.Flags().Bool("oxlint", false, "Write the default oxlint config when no oxlint preset is set")
	cmd.Flags().Bool("install", false, "Run `<package manager> install` once the files are written")
	addLicenseFlag(cmd)
	addDryRunFlag(cmd)
}

// packageOverrides reads the addPackageFlags flags into a package config.
func packageOverrides(cmd *cobra.Command) (ts.PackageConfig, error) {
	var c ts.PackageConfig
	l, err := licenseFlag(cmd)
	if err != nil {
		return c, err
	}
	c.License = l
	c.Name, _ = cmd.Flags().GetString("name")
	if id, _ := cmd.Flags().GetString("package-json"); id != "" {
		c.PackageJSON = preset.IDRef[packagejson.Preset](id)
	}
	if id, _ := cmd.Flags().GetString("oxlint-preset"); id != "" {
		c.Oxlint = &oxlint.Setting{Ref: preset.Ref[oxlint.Preset]{ID: id}}
	}
	return c, nil
}

func init() {
	tsPackageCmd.Flags().StringP("preset", "p", "", "The package preset")
	tsPackageCmd.Flags().Bool("app", false, "Use the tsconfig defaults of an app")
	tsPackageCmd.Flags().Bool("library", false, "Use the tsconfig defaults of a library")
	tsPackageCmd.Flags().String("vitest", "", "The vitest preset")
	tsPackageCmd.Flags().Bool("no-vitest", false, "Do not set up vitest")
	tsPackageCmd.Flags().StringArray("update-tsconfig", nil, "Add a reference to the new package to this tsconfig file. Can be repeated")
	addPackageFlags(tsPackageCmd)
	tsPackageCmd.MarkFlagsMutuallyExclusive("app", "library")
	tsPackageCmd.MarkFlagsMutuallyExclusive("vitest", "no-vitest")

	tsCmd.AddCommand(tsPackageCmd)
}
