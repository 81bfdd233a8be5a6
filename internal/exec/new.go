package exec

import (
	"github.com/cloudposse/sketch/pkg/schema"
)

// DefaultConfigFile is written by `sketch new` when no output is given.
const DefaultConfigFile = "sketch.yaml"

// ExecuteNewCmd writes the default configuration to output. The format follows the extension.
func (e *Env) ExecuteNewCmd(output string) error {
	if output == "" {
		output = DefaultConfigFile
	}
	return e.write("config", output, func() error {
		return schema.Default().Write(output, e.overwrite())
	})
}
