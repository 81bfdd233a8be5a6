package config

import (
	"errors"
	"strings"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filetype"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

var errEmptyValue = errors.New("empty value")

// LoadVarsFile reads a yaml, toml or json file whose top level is a map of template variables.
func LoadVarsFile(path string) (*orderedmap.Map[any], error) {
	node, err := filetype.ReadNode(path)
	if err != nil {
		return nil, err
	}
	vars := orderedmap.New[any]()
	if node == nil {
		return vars, nil
	}
	if err := vars.UnmarshalYAML(node); err != nil {
		return nil, errUtils.NewDeserializationError(path, err.Error())
	}
	return vars, nil
}

// ParseSetValue parses a `--set key=value` flag. The value must be valid JSON.
func ParseSetValue(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	raw = strings.TrimSpace(raw)
	if !ok || key == "" {
		return "", nil, errUtils.Build(errUtils.Errorf(errUtils.ErrInvalidSetValue,
			"Invalid key-value pair format for context. Only key-value pairs with '=' between them are allowed")).
			WithHint("Use `--set name=value`, where value is JSON, e.g. `--set port=8080` or `--set 'name=\"app\"'`").
			Err()
	}

	node, err := filetype.ParseNode([]byte(raw), filetype.JSON)
	if err == nil && node == nil {
		err = errEmptyValue
	}
	if err != nil {
		return "", nil, errUtils.Wrapf(errUtils.ErrInvalidSetValue, err,
			"Could not map the value '%s' to a serde-compatible value: %v", raw, err)
	}
	value, err := orderedmap.DecodeAny(node)
	if err != nil {
		return "", nil, errUtils.Wrapf(errUtils.ErrInvalidSetValue, err,
			"Could not map the value '%s' to a serde-compatible value: %v", raw, err)
	}
	return key, value, nil
}

// ParseSetValues parses repeated `--set` flags. Later values for the same key win.
func ParseSetValues(values []string) (*orderedmap.Map[any], error) {
	out := orderedmap.New[any]()
	for _, s := range values {
		key, value, err := ParseSetValue(s)
		if err != nil {
			return nil, err
		}
		out.Set(key, value)
	}
	return out, nil
}
