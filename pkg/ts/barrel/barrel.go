// Package barrel writes index files that re-export every module of a directory tree.
package barrel

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filematch"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/utils"
)

// DefaultFile is the barrel file name, and is never exported from itself.
const DefaultFile = "index.ts"

// Extensions lists the module extensions a barrel exports.
var Extensions = []string{"vue", "svelte", "jsx", "tsx", "ts", "js"}

// Options selects the modules of a barrel and how their paths are written.
type Options struct {
	Dir     string
	Output  string
	Exclude []string
	// KeepExtensions are written as they are. Other extensions are dropped.
	KeepExtensions []string
	// JSExt writes .ts and .js modules with a .js extension.
	JSExt bool
}

// OutputOrDefault returns the output file, index.ts inside Dir when unset.
func (o Options) OutputOrDefault() string {
	if o.Output == "" {
		return filepath.Join(o.Dir, DefaultFile)
	}
	return o.Output
}

// Exports lists the module paths of the barrel, in lexical order.
func Exports(o Options) ([]string, error) {
	if ok, err := utils.IsDirectory(o.Dir); err != nil || !ok {
		return nil, errUtils.Errorf(errUtils.ErrNotADirectory, "`%s` is not a directory", o.Dir)
	}
	excludes, err := filematch.Compile(append([]string{DefaultFile}, o.Exclude...)...)
	if err != nil {
		return nil, err
	}
	files, err := excludes.Files(o.Dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(files))
	exports := make([]string, 0, len(files))
	for _, file := range files {
		ext := strings.TrimPrefix(path.Ext(file), ".")
		if !slices.Contains(Extensions, ext) {
			continue
		}
		stem := strings.TrimSuffix(file, "."+ext)
		switch {
		case o.JSExt && (ext == "ts" || ext == "js"):
			file = stem + ".js"
		case !slices.Contains(o.KeepExtensions, ext):
			file = stem
		}
		if !seen[file] {
			seen[file] = true
			exports = append(exports, file)
		}
	}
	slices.Sort(exports)
	return exports, nil
}

// Render returns the content of a barrel file.
func Render(exports []string) string {
	var b strings.Builder
	for _, e := range exports {
		b.WriteString(`export * from "` + e + "\";\n")
	}
	return b.String()
}

// Write generates the barrel described by o through the overwrite policy.
func Write(o Options, overwrite bool) error {
	exports, err := Exports(o)
	if err != nil {
		return err
	}
	output := o.OutputOrDefault()
	log.Debug("Writing barrel file", "output", output, "exports", len(exports))
	return utils.WriteFile(output, []byte(Render(exports)), overwrite)
}
