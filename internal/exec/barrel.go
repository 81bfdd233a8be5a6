package exec

import (
	"github.com/cloudposse/sketch/pkg/ts/barrel"
)

// ExecuteBarrelCmd writes an index file that re-exports every module under opts.Dir.
func (e *Env) ExecuteBarrelCmd(opts barrel.Options) error {
	return e.write(barrel.DefaultFile, opts.OutputOrDefault(), func() error {
		return barrel.Write(opts, e.overwrite())
	})
}
