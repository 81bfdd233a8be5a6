package npm

import (
	"strings"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
)

// Latest is the version placeholder resolved through the registry.
const Latest = "latest"

// CatalogPrefix marks a dependency version that points at a pnpm or bun catalog.
const CatalogPrefix = "catalog:"

// VersionRange is the prefix policy applied to resolved versions.
type VersionRange string

const (
	// RangeMinor allows updates within the same major version (^1.2.3). It is the default.
	RangeMinor VersionRange = "minor"
	// RangePatch allows updates within the same minor version (~1.2.3).
	RangePatch VersionRange = "patch"
	// RangeExact pins the version.
	RangeExact VersionRange = "exact"
)

// Create prefixes version according to r. Catalog references and `latest` pass through unchanged.
func (r VersionRange) Create(version string) string {
	if strings.HasPrefix(version, CatalogPrefix) || version == Latest {
		return version
	}
	switch r {
	case RangePatch:
		return "~" + version
	case RangeExact:
		return version
	default:
		return "^" + version
	}
}

// Or returns r, or fallback when r is unset.
func (r VersionRange) Or(fallback VersionRange) VersionRange {
	if r == "" {
		return fallback
	}
	return r
}

// ParseVersionRange accepts minor, patch and exact.
func ParseVersionRange(s string) (VersionRange, error) {
	switch r := VersionRange(strings.ToLower(s)); r {
	case RangeMinor, RangePatch, RangeExact:
		return r, nil
	default:
		return "", errUtils.Errorf(errUtils.ErrUnsupportedValue,
			"Invalid version range `%s`. Allowed values are: minor, patch, exact", s)
	}
}

func (r VersionRange) String() string {
	return string(r)
}

// Set implements pflag.Value.
func (r *VersionRange) Set(s string) error {
	parsed, err := ParseVersionRange(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Type implements pflag.Value.
func (r *VersionRange) Type() string {
	return "minor|patch|exact"
}

func (r *VersionRange) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return r.Set(s)
}
