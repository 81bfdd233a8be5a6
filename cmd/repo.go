package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
	"github.com/cloudposse/sketch/pkg/gitignore"
	"github.com/cloudposse/sketch/pkg/precommit"
	"github.com/cloudposse/sketch/pkg/repo"
)

// repoCmd initializes a git repository from a repo preset.
var repoCmd = &cobra.Command{
	Use:   "repo [dir]",
	Short: "Initialize a git repository from a preset",
	Long: `Initialize a git repository in the directory (the current one by default) and write its .gitignore,
.pre-commit-config.yaml, LICENSE, github workflows and templates. The pre-commit hooks are installed
when a pre-commit config is written.`,
	Example: "sketch repo --preset ts ./project\n" +
		"sketch repo --no-pre-commit --remote git@github.com:acme/project.git",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := licenseFlag(cmd)
		if err != nil {
			return err
		}
		opts := e.RepoOptions{
			Dir: argOr(args, 0, ""),
			Overrides: repo.Config{
				Gitignore: toggleFlag[gitignore.Preset](cmd, "gitignore"),
				PreCommit: toggleFlag[precommit.Preset](cmd, "pre-commit"),
				License:   l,
			},
		}
		opts.Preset, _ = cmd.Flags().GetString("preset")
		opts.Remote, _ = cmd.Flags().GetString("remote")
		return env(cmd).ExecuteRepoCmd(cmd.Context(), opts)
	},
}

func init() {
	repoCmd.Flags().StringP("preset", "p", "", "The repo preset")
	repoCmd.Flags().String("remote", "", "Add the url as the origin remote")
	addToggleFlags(repoCmd, "gitignore", ".gitignore")
	addToggleFlags(repoCmd, "pre-commit", "pre-commit")
	addLicenseFlag(repoCmd)
	addDryRunFlag(repoCmd)

	RootCmd.AddCommand(repoCmd)
}
