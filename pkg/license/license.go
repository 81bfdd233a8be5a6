// Package license provides the license texts sketch can write into new projects.
package license

import (
	"embed"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
)

//go:embed texts
var texts embed.FS

// License is an SPDX identifier of a bundled license text.
type License string

const (
	Apache2 License = "Apache-2.0"
	GPL3    License = "GPL-3.0"
	MPL2    License = "MPL-2.0"
	MIT     License = "MIT"
)

var files = map[License]string{
	Apache2: "texts/apache-2.0",
	GPL3:    "texts/gpl-3.0",
	MPL2:    "texts/mpl-2.0",
	MIT:     "texts/mit",
}

// All lists the bundled licenses in display order.
func All() []License {
	return []License{Apache2, GPL3, MPL2, MIT}
}

// Parse matches an SPDX identifier case-insensitively.
func Parse(s string) (License, error) {
	for _, l := range All() {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	names := make([]string, 0, len(files))
	for _, l := range All() {
		names = append(names, string(l))
	}
	return "", errUtils.Build(errUtils.Errorf(errUtils.ErrLicenseNotFound, "License `%s` not found", s)).
		WithHintf("Available licenses: %s", strings.Join(names, ", ")).
		Err()
}

func (l License) String() string {
	return string(l)
}

// Set implements pflag.Value.
func (l *License) Set(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l *License) Type() string {
	return "license"
}

// Content returns the license text. The MIT notice gets the current year and holder filled in when holder is set.
func (l License) Content(holder string) (string, error) {
	file, ok := files[l]
	if !ok {
		return "", errUtils.Errorf(errUtils.ErrLicenseNotFound, "License `%s` not found", l)
	}
	data, err := texts.ReadFile(file)
	if err != nil {
		return "", errUtils.NewReadError(file, err)
	}
	content := string(data)
	if holder != "" {
		content = strings.NewReplacer(
			"[year]", strconv.Itoa(time.Now().Year()),
			"[fullname]", holder,
		).Replace(content)
	}
	return content, nil
}

// IsBundled reports whether s names a bundled license.
func IsBundled(s string) bool {
	return slices.ContainsFunc(All(), func(l License) bool { return strings.EqualFold(string(l), s) })
}

func (l *License) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return l.Set(s)
}
