package filetype

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
)

// Format is a supported data file format.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatFromPath detects the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch GetFileExtension(ExtractFilenameFromPath(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	default:
		return "", errUtils.ErrInvalidConfigFormat
	}
}

// ExtractFilenameFromPath drops URL query strings and fragments and returns the base name.
func ExtractFilenameFromPath(path string) string {
	if idx := strings.IndexAny(path, "#?"); idx != -1 {
		path = path[:idx]
	}
	return filepath.Base(path)
}

// GetFileExtension returns the lowercase extension including the dot. Dotfiles have none.
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == filename || ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}

// ReadNode reads a yaml, toml or json file into a YAML node tree.
func ReadNode(path string) (*yaml.Node, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, errUtils.NewDeserializationError(path, err.Error())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errUtils.NewReadError(path, err)
	}
	node, err := ParseNode(data, format)
	if err != nil {
		return nil, errUtils.NewDeserializationError(path, err.Error())
	}
	return node, nil
}

// DecodeFile reads path and decodes it into out, which follows yaml struct tags whatever the format.
func DecodeFile(path string, out any) error {
	node, err := ReadNode(path)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}
	if err := node.Decode(out); err != nil {
		return errUtils.NewDeserializationError(path, err.Error())
	}
	return nil
}

// ParseNode parses data in the given format. Empty documents yield a nil node.
func ParseNode(data []byte, format Format) (*yaml.Node, error) {
	switch format {
	case YAML:
		return parseYAML(data)
	case JSON:
		return parseJSON(data)
	case TOML:
		return parseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %s", errUtils.ErrInvalidConfigFormat, format)
	}
}

func parseYAML(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

// parseJSON streams the document so object keys keep their order.
func parseJSON(data []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	// A top-level number ends at the end of the buffer. The trailing newline keeps the iterator from
	// reporting io.EOF for it.
	buf := make([]byte, 0, len(data)+1)
	buf = append(append(buf, data...), '\n')
	iter := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowIterator(buf)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnIterator(iter)

	node := readJSONValue(iter)
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, iter.Error
	}
	if iter.WhatIsNext() != jsoniter.InvalidValue {
		return nil, fmt.Errorf("unexpected data after the top-level JSON value")
	}
	return node, nil
}

func readJSONValue(iter *jsoniter.Iterator) *yaml.Node {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			node.Content = append(node.Content, scalar("!!str", key), readJSONValue(it))
			return it.Error == nil
		})
		return node
	case jsoniter.ArrayValue:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			node.Content = append(node.Content, readJSONValue(it))
			return it.Error == nil
		})
		return node
	case jsoniter.StringValue:
		return scalar("!!str", iter.ReadString())
	case jsoniter.NumberValue:
		n := iter.ReadNumber().String()
		if strings.ContainsAny(n, ".eE") {
			return scalar("!!float", n)
		}
		return scalar("!!int", n)
	case jsoniter.BoolValue:
		if iter.ReadBool() {
			return scalar("!!bool", "true")
		}
		return scalar("!!bool", "false")
	case jsoniter.NilValue:
		iter.ReadNil()
		return scalar("!!null", "null")
	default:
		iter.ReportError("readJSONValue", "unexpected JSON token")
		return scalar("!!null", "null")
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// parseTOML decodes through a Go map, so keys come back sorted.
func parseTOML(data []byte) (*yaml.Node, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	var node yaml.Node
	if err := node.Encode(m); err != nil {
		return nil, err
	}
	return &node, nil
}
