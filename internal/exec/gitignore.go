package exec

import (
	"github.com/cloudposse/sketch/pkg/gitignore"
)

// ExecuteGitignoreCmd writes the gitignore preset id to output, .gitignore by default.
func (e *Env) ExecuteGitignoreCmd(id, output string) error {
	cfg, err := e.Config.GitignorePreset(id)
	if err != nil {
		return err
	}
	if output == "" {
		output = gitignore.FileName
	}
	return e.write(gitignore.FileName, output, func() error {
		return cfg.Write(output, e.overwrite())
	})
}
