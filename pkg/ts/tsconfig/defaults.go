package tsconfig

import "github.com/cloudposse/sketch/pkg/orderedmap"

// RootOptions returns the compiler options shared by every package of a monorepo.
func RootOptions() TsConfig {
	return TsConfig{
		CompilerOptions: orderedmap.FromPairs[any](
			orderedmap.P[any]("lib", []any{"ESNext", "DOM"}),
			orderedmap.P[any]("moduleResolution", "NodeNext"),
			orderedmap.P[any]("module", "NodeNext"),
			orderedmap.P[any]("target", "ESNext"),
			orderedmap.P[any]("moduleDetection", "force"),
			orderedmap.P[any]("isolatedModules", true),
			orderedmap.P[any]("esModuleInterop", true),
			orderedmap.P[any]("resolveJsonModule", true),
			orderedmap.P[any]("declaration", true),
			orderedmap.P[any]("declarationMap", true),
			orderedmap.P[any]("composite", true),
			orderedmap.P[any]("noEmitOnError", true),
			orderedmap.P[any]("incremental", true),
			orderedmap.P[any]("sourceMap", true),
			orderedmap.P[any]("strict", true),
			orderedmap.P[any]("strictNullChecks", true),
			orderedmap.P[any]("skipLibCheck", true),
			orderedmap.P[any]("forceConsistentCasingInFileNames", true),
			orderedmap.P[any]("noUncheckedIndexedAccess", true),
			orderedmap.P[any]("allowSyntheticDefaultImports", true),
			orderedmap.P[any]("verbatimModuleSyntax", true),
			orderedmap.P[any]("noUncheckedSideEffectImports", true),
		),
	}
}

// RootEntry is the tsconfig.json of a monorepo root: it only extends the options file
// and collects the references of its packages.
func RootEntry() TsConfig {
	refs := []Reference{}
	return TsConfig{
		Extends:    OptionsFile,
		Files:      Paths(),
		References: &refs,
	}
}

// PackageDefault returns the tsconfig of a package created without presets.
// Libraries only emit declarations, apps emit nothing.
func PackageDefault(app bool) TsConfig {
	refs := []Reference{}
	emit := orderedmap.P[any]("emitDeclarationOnly", true)
	if app {
		emit = orderedmap.P[any]("noEmit", true)
	}
	return RootOptions().Merge(TsConfig{
		Include:    Paths("src", "*.ts", "tests", "scripts"),
		References: &refs,
		CompilerOptions: orderedmap.FromPairs[any](
			orderedmap.P[any]("rootDir", "src"),
			orderedmap.P[any]("outDir", ".out"),
			orderedmap.P[any]("tsBuildInfoFile", ".out/.tsBuildInfoSrc"),
			emit,
		),
	})
}
