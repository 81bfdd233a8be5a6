package exec

import (
	"github.com/cloudposse/sketch/pkg/license"
	"github.com/cloudposse/sketch/pkg/utils"
)

// LicenseFile is the default output of license texts.
const LicenseFile = "LICENSE"

// ExecuteLicenseCmd writes the text of l to output, LICENSE by default.
func (e *Env) ExecuteLicenseCmd(l license.License, output string) error {
	if output == "" {
		output = LicenseFile
	}
	return e.writeLicense(l, output)
}

func (e *Env) writeLicense(l license.License, path string) error {
	content, err := l.Content("")
	if err != nil {
		return err
	}
	return e.write(LicenseFile, path, func() error {
		return utils.WriteFile(path, []byte(content), e.overwrite())
	})
}
