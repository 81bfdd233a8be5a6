package template

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/huandu/xstrings"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/utils"
)

// FuncMap returns the sketch template functions. In a pipeline the piped value is the last argument,
// so `{{ .path | relative "/from" }}` calls relative("/from", .path).
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"basename":       basename,
		"parent_dir":     parentDir,
		"capture":        capture,
		"capture_many":   captureMany,
		"is_file":        utils.FileExists,
		"is_dir":         isDir,
		"is_absolute":    filepath.IsAbs,
		"is_relative":    func(path string) bool { return !filepath.IsAbs(path) },
		"absolute":       utils.Absolute,
		"relative":       relative,
		"strip_prefix":   func(prefix, s string) string { return strings.TrimPrefix(s, prefix) },
		"strip_suffix":   func(suffix, s string) string { return strings.TrimSuffix(s, suffix) },
		"semver":         parseSemver,
		"matches_semver": matchesSemver,
		"camel":          camel,
		"pascal":         pascal,
		"snake":          xstrings.ToSnakeCase,
		"upper_snake":    func(s string) string { return strings.ToUpper(xstrings.ToSnakeCase(s)) },
		"read_dir":       readDir,
		"glob":           globFiles,
		"matches_glob":   matchesGlob,
		"to_yaml":        toYAML,
		"to_toml":        toTOML,
		"to_json":        toJSON,
		"uuid":           func() string { return uuid.NewString() },
	}
}

func funcError(name string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", errUtils.ErrInvalidTemplateArgs, name, fmt.Sprintf(format, args...))
}

func basename(path string) (string, error) {
	base := filepath.Base(path)
	if path == "" || base == string(filepath.Separator) || base == "." || base == ".." {
		return "", funcError("basename", "Could not get the basename for `%s`", path)
	}
	return base, nil
}

func parentDir(path string) (string, error) {
	clean := filepath.Clean(path)
	if path == "" || clean == string(filepath.Separator) {
		return "", funcError("parent_dir", "Could not get the parent dir for `%s`", path)
	}
	parent := filepath.Dir(clean)
	if parent == "." && !strings.HasPrefix(path, ".") {
		// A bare file name has an empty parent.
		return "", nil
	}
	return parent, nil
}

func isDir(path string) bool {
	ok, err := utils.IsDirectory(path)
	return err == nil && ok
}

func relative(from, path string) (string, error) {
	return utils.RelativePath(from, path)
}

func compileRegex(name, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, funcError(name, "Regex creation error for `%s`: %v", pattern, err)
	}
	return re, nil
}

// namedGroups maps the named groups that took part in the match at loc to their text. A group
// that matched the empty string is kept.
func namedGroups(re *regexp.Regexp, s string, loc []int) map[string]any {
	groups := make(map[string]any)
	for i, name := range re.SubexpNames() {
		if name == "" || 2*i+1 >= len(loc) || loc[2*i] < 0 {
			continue
		}
		groups[name] = s[loc[2*i]:loc[2*i+1]]
	}
	return groups
}

// capture returns the named groups of the first match of pattern in s.
func capture(pattern, s string) (map[string]any, error) {
	re, err := compileRegex("capture", pattern)
	if err != nil {
		return nil, err
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return map[string]any{}, nil
	}
	return namedGroups(re, s, loc), nil
}

// captureMany returns the named groups of every match, dropping matches without any.
func captureMany(pattern, s string) ([]map[string]any, error) {
	re, err := compileRegex("capture_many", pattern)
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if groups := namedGroups(re, s, loc); len(groups) > 0 {
			out = append(out, groups)
		}
	}
	return out, nil
}

func parseSemver(s string) (map[string]any, error) {
	text := strings.TrimPrefix(s, "v")
	v, err := semver.StrictNewVersion(text)
	if err != nil {
		return nil, funcError("semver", "Could not parse `%s` as a semver: %v", text, err)
	}
	return map[string]any{
		"major": v.Major(),
		"minor": v.Minor(),
		"patch": v.Patch(),
	}, nil
}

func matchesSemver(target, s string) (bool, error) {
	text := strings.TrimPrefix(s, "v")
	v, err := semver.StrictNewVersion(text)
	if err != nil {
		return false, funcError("matches_semver", "Could not parse `%s` as a semver: %v", text, err)
	}
	constraint, err := semver.NewConstraint(strings.TrimPrefix(target, "v"))
	if err != nil {
		return false, funcError("matches_semver", "Could not parse `%s` as a semver: %v", target, err)
	}
	return constraint.Check(v), nil
}

func upperFirst(s string, upper bool) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	if upper {
		return string(unicode.ToUpper(r)) + s[size:]
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// Word boundaries come from the snake form so every input style is handled the same way.
func pascal(s string) string {
	words := strings.Split(xstrings.ToSnakeCase(s), "_")
	var b strings.Builder
	for _, w := range words {
		b.WriteString(upperFirst(w, true))
	}
	return b.String()
}

func camel(s string) string {
	return upperFirst(pascal(s), false)
}

// readDir lists every file below dir, relative to it.
func readDir(dir string) ([]string, error) {
	return walkFiles("read_dir", dir, func(string) bool { return true })
}

// globFiles lists the files below dir whose relative path matches pattern.
func globFiles(pattern, dir string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, funcError("glob", "Invalid glob pattern error for `%s`", pattern)
	}
	return walkFiles("glob", dir, func(rel string) bool {
		ok, _ := doublestar.Match(pattern, rel)
		return ok
	})
}

func walkFiles(name, dir string, keep func(rel string) bool) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if keep(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, funcError(name, "%v", err)
	}
	return files, nil
}

func matchesGlob(pattern, path string) (bool, error) {
	ok, err := doublestar.Match(pattern, filepath.ToSlash(path))
	if err != nil {
		return false, funcError("matches_glob", "Invalid glob pattern error for `%s`: %v", pattern, err)
	}
	return ok, nil
}

func toYAML(v any) (string, error) {
	out, err := utils.ConvertToYAML(v)
	if err != nil {
		return "", funcError("to_yaml", "%v", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

func toTOML(v any) (string, error) {
	out, err := utils.ConvertToTOML(v)
	if err != nil {
		return "", funcError("to_toml", "%v", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

func toJSON(v any) (string, error) {
	out, err := utils.ConvertToJSON(v)
	if err != nil {
		return "", funcError("to_json", "%v", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}
