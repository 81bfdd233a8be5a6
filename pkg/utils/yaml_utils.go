package utils

import (
	"bytes"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
)

// YAMLIndent is the indentation of every YAML file sketch writes.
const YAMLIndent = 2

// ConvertToYAML renders data as a YAML document.
func ConvertToYAML(data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(YAMLIndent)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteToFileAsYAML serializes data and writes it through the overwrite policy.
func WriteToFileAsYAML(filePath string, data any, overwrite bool) error {
	y, err := ConvertToYAML(data)
	if err != nil {
		return serializationError(filePath, err)
	}
	return WriteFile(filePath, y, overwrite)
}

// UnmarshalYAML decodes a YAML string into a new T.
func UnmarshalYAML[T any](input string) (T, error) {
	var out T
	err := yaml.Unmarshal([]byte(input), &out)
	return out, err
}

func serializationError(file string, err error) error {
	return errUtils.NewSerializationError(file, err.Error())
}
