package utils

import (
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ConvertToTOML renders a mapping as a TOML document. Values go through YAML first,
// so ordered maps and records encode with their file keys. Table keys come out sorted.
func ConvertToTOML(data any) ([]byte, error) {
	y, err := yaml.Marshal(data)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(y, &m); err != nil {
		return nil, err
	}
	return toml.Marshal(m)
}

// WriteToFileAsTOML serializes data and writes it through the overwrite policy.
func WriteToFileAsTOML(filePath string, data any, overwrite bool) error {
	t, err := ConvertToTOML(data)
	if err != nil {
		return serializationError(filePath, err)
	}
	return WriteFile(filePath, t, overwrite)
}
