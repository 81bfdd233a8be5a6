package utils

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// ConvertToJSON renders data as two-space indented JSON with a trailing newline.
// Ordered maps keep their key order and HTML characters are not escaped.
func ConvertToJSON(data any) ([]byte, error) {
	compact, err := jsonAPI.Marshal(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteToFileAsJSON serializes data and writes it through the overwrite policy.
func WriteToFileAsJSON(filePath string, data any, overwrite bool) error {
	j, err := ConvertToJSON(data)
	if err != nil {
		return serializationError(filePath, err)
	}
	return WriteFile(filePath, j, overwrite)
}
