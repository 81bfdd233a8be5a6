package preset

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

// ExtendsKey is the key that lists the parents of a preset.
const ExtendsKey = "extends_presets"

// Preset pairs a record with the ids of the presets it extends.
// In files the record's keys sit next to extends_presets on the same level.
type Preset[C merge.Mergeable[C]] struct {
	Extends *orderedmap.Set[string]
	Config  C
}

// Of wraps a record in a preset with no parents.
func Of[C merge.Mergeable[C]](config C) Preset[C] {
	return Preset[C]{Config: config}
}

func (p Preset[C]) ExtendsPresets() *orderedmap.Set[string] {
	return p.Extends
}

func (p Preset[C]) Merge(right Preset[C]) Preset[C] {
	return Preset[C]{
		Extends: merge.Set(p.Extends, right.Extends),
		Config:  p.Config.Merge(right.Config),
	}
}

func (p *Preset[C]) UnmarshalYAML(node *yaml.Node) error {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node == nil {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return node.Decode(&p.Config)
	}

	rest := *node
	rest.Content = make([]*yaml.Node, 0, len(node.Content))
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == ExtendsKey {
			p.Extends = orderedmap.NewSet[string]()
			if err := node.Content[i+1].Decode(p.Extends); err != nil {
				return err
			}
			continue
		}
		rest.Content = append(rest.Content, node.Content[i], node.Content[i+1])
	}
	return rest.Decode(&p.Config)
}

func (p Preset[C]) MarshalYAML() (any, error) {
	var config yaml.Node
	if err := config.Encode(p.Config); err != nil {
		return nil, err
	}
	if p.Extends.Len() == 0 || config.Kind != yaml.MappingNode {
		return &config, nil
	}

	var extends yaml.Node
	if err := extends.Encode(p.Extends); err != nil {
		return nil, err
	}
	config.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: ExtendsKey},
		&extends,
	}, config.Content...)
	return &config, nil
}

// MarshalJSON puts extends_presets first and splices the record's own keys after it.
func (p Preset[C]) MarshalJSON() ([]byte, error) {
	config, err := jsonMarshal(p.Config)
	if err != nil {
		return nil, err
	}
	if p.Extends.Len() == 0 || !bytes.HasPrefix(config, []byte("{")) {
		return config, nil
	}

	extends, err := p.Extends.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"` + ExtendsKey + `":`)
	buf.Write(extends)
	if body := bytes.TrimSpace(config[1:]); !bytes.Equal(body, []byte("}")) {
		buf.WriteByte(',')
		buf.Write(body)
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}
