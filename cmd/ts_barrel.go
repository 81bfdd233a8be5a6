package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudposse/sketch/pkg/ts/barrel"
)

var tsBarrelCmd = &cobra.Command{
	Use:   "barrel [dir]",
	Short: "Write an index file exporting every module of a directory",
	Example: "sketch ts barrel src --exclude '**/*.test.ts' --js-ext\n" +
		"sketch ts barrel src/components --keep-ext svelte -o src/components/index.ts",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := barrel.Options{Dir: argOr(args, 0, ".")}
		opts.Output, _ = flags.GetString("output")
		opts.Exclude, _ = flags.GetStringArray("exclude")
		opts.KeepExtensions, _ = flags.GetStringArray("keep-ext")
		opts.JSExt, _ = flags.GetBool("js-ext")
		return env(cmd).ExecuteBarrelCmd(opts)
	},
}

func init() {
	tsBarrelCmd.Flags().StringP("output", "o", "", "The output file. Defaults to index.ts in the directory")
	tsBarrelCmd.Flags().StringArray("exclude", nil, "Skip files matching the glob. Can be repeated")
	tsBarrelCmd.Flags().StringArray("keep-ext", nil, "Keep this extension in the export paths. Can be repeated")
	tsBarrelCmd.Flags().Bool("js-ext", false, "Export .ts modules with a .js extension")
	addDryRunFlag(tsBarrelCmd)

	tsCmd.AddCommand(tsBarrelCmd)
}
