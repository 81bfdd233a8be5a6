package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/sketch/internal/exec"
	"github.com/cloudposse/sketch/pkg/docker/compose"
)

var dockerComposeCmd = &cobra.Command{
	Use:   "docker-compose [output]",
	Short: "Write a compose file from a preset and service presets",
	Example: "sketch docker-compose -p app\n" +
		"sketch docker-compose -s postgres -s id=valkey,name=cache compose.dev.yaml",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := e.DockerComposeOptions{Output: argOr(args, 0, "")}
		opts.Preset, _ = cmd.Flags().GetString("preset")
		values, _ := cmd.Flags().GetStringArray("service")
		for _, v := range values {
			s, err := compose.ParseServiceFlag(v)
			if err != nil {
				return err
			}
			opts.Services = append(opts.Services, s)
		}
		return env(cmd).ExecuteDockerComposeCmd(opts)
	},
}

func init() {
	dockerComposeCmd.Flags().StringP("preset", "p", "", "The compose preset")
	dockerComposeCmd.Flags().StringArrayP("service", "s", nil, "Add a service preset, as `ID` or `id=ID,name=NAME`. Can be repeated")

	RootCmd.AddCommand(dockerComposeCmd)
}
