package exec

import (
	"github.com/cloudposse/sketch/pkg/docker/compose"
)

// DockerComposeOptions drives `sketch docker-compose`.
type DockerComposeOptions struct {
	// Preset is optional when services are given.
	Preset   string
	Output   string
	Services []compose.ServiceFromCLI
}

// ExecuteDockerComposeCmd writes the compose preset, with the services from the command line added, to
// the output, compose.yaml by default.
func (e *Env) ExecuteDockerComposeCmd(opts DockerComposeOptions) error {
	file, err := e.Config.Docker.Compose(opts.Preset, opts.Services)
	if err != nil {
		return err
	}
	output := opts.Output
	if output == "" {
		output = compose.FileName
	}
	return e.write(compose.FileName, output, func() error {
		return file.Write(output, e.overwrite())
	})
}
