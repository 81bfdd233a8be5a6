package exec

import (
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/ts/oxlint"
	"github.com/cloudposse/sketch/pkg/ts/packagejson"
	"github.com/cloudposse/sketch/pkg/ts/pnpm"
	"github.com/cloudposse/sketch/pkg/ts/tsconfig"
	"github.com/cloudposse/sketch/pkg/utils"
)

// PackageJSONFile is the default output of `sketch package-json`.
const PackageJSONFile = "package.json"

// ExecutePackageJSONCmd writes the package.json preset id, with its people materialized, to output.
func (e *Env) ExecutePackageJSONCmd(id, output string) error {
	t := e.Config.Typescript
	pkg, err := packagejson.Resolve(preset.IDRef[packagejson.Preset](id), t.PackageJSONPresets, t.People)
	if err != nil {
		return err
	}
	if output == "" {
		output = PackageJSONFile
	}
	return e.write(PackageJSONFile, output, func() error {
		return utils.WriteToFileAsJSON(output, pkg, e.overwrite())
	})
}

// ExecuteTSConfigCmd writes the tsconfig preset id to output, tsconfig.json by default.
func (e *Env) ExecuteTSConfigCmd(id, output string) error {
	p, err := preset.Lookup(preset.TSConfig, id, e.Config.Typescript.TSConfigPresets)
	if err != nil {
		return err
	}
	if output == "" {
		output = tsconfig.DefaultOutput
	}
	return e.write(tsconfig.DefaultOutput, output, func() error {
		return utils.WriteToFileAsJSON(output, p.Config, e.overwrite())
	})
}

// ExecuteOxlintCmd writes the oxlint preset id to output, .oxlintrc.json by default.
func (e *Env) ExecuteOxlintCmd(id, output string) error {
	p, err := preset.Lookup(preset.Oxlint, id, e.Config.Typescript.OxlintPresets)
	if err != nil {
		return err
	}
	if output == "" {
		output = oxlint.FileName
	}
	return e.write(oxlint.FileName, output, func() error {
		return utils.WriteToFileAsJSON(output, p.Config, e.overwrite())
	})
}

// ExecutePnpmWorkspaceCmd writes the pnpm workspace preset id to output, pnpm-workspace.yaml by default.
func (e *Env) ExecutePnpmWorkspaceCmd(id, output string) error {
	p, err := preset.Lookup(preset.PnpmWorkspace, id, e.Config.Typescript.PnpmPresets)
	if err != nil {
		return err
	}
	if output == "" {
		output = pnpm.FileName
	}
	return e.write(pnpm.FileName, output, func() error {
		return utils.WriteToFileAsYAML(output, p.Config, e.overwrite())
	})
}
