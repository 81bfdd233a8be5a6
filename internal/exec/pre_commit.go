package exec

import (
	"github.com/cloudposse/sketch/pkg/precommit"
	"github.com/cloudposse/sketch/pkg/utils"
)

// ExecutePreCommitCmd writes the pre-commit preset id to output, .pre-commit-config.yaml by default.
func (e *Env) ExecutePreCommitCmd(id, output string) error {
	cfg, err := e.Config.PreCommitPreset(id)
	if err != nil {
		return err
	}
	if output == "" {
		output = precommit.FileName
	}
	return e.write(precommit.FileName, output, func() error {
		return utils.WriteToFileAsYAML(output, cfg, e.overwrite())
	})
}
