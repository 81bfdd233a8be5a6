package orderedmap

import (
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

type zeroer interface {
	IsZero() bool
}

// FromStruct lists the non-zero fields of a struct in declaration order, keyed by their yaml tag,
// followed by the extras. Records use it to encode themselves with a stable key order.
func FromStruct(v any, extras *Map[any]) *Map[any] {
	out := New[any]()
	rv := reflect.Indirect(reflect.ValueOf(v))
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, ok := yamlName(field)
		if !ok {
			continue
		}
		fv := rv.Field(i)
		if isZeroValue(fv) {
			continue
		}
		out.Set(name, fv.Interface())
	}
	for k, e := range extras.All() {
		if !out.Has(k) {
			out.Set(k, e)
		}
	}
	return out
}

// DecodeStruct decodes a mapping node into out and returns the entries that match none of its yaml tags.
// out must not implement yaml.Unmarshaler itself; callers pass a pointer to a plain alias type.
func DecodeStruct(node *yaml.Node, out any) (*Map[any], error) {
	node = resolve(node)
	if isNull(node) {
		return nil, nil
	}
	if err := node.Decode(out); err != nil {
		return nil, err
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil
	}

	known := knownKeys(reflect.TypeOf(out).Elem())
	var extras *Map[any]
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, ok := known[key]; ok {
			continue
		}
		value, err := DecodeAny(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		if extras == nil {
			extras = New[any]()
		}
		extras.Set(key, value)
	}
	return extras, nil
}

func knownKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name, ok := yamlName(t.Field(i)); ok {
			keys[name] = struct{}{}
		}
	}
	return keys
}

func yamlName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("yaml")
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return "", false
	case "":
		return strings.ToLower(field.Name), true
	default:
		return name, true
	}
}

func isZeroValue(v reflect.Value) bool {
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface || v.Kind() == reflect.Map ||
		v.Kind() == reflect.Slice) && v.IsNil() {
		return true
	}
	if z, ok := v.Interface().(zeroer); ok {
		return z.IsZero()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

// RenameKeys returns a shallow copy of a mapping node with aliased keys renamed to their canonical form.
// A key that is already present in canonical form wins over its alias.
func RenameKeys(node *yaml.Node, aliases map[string]string) *yaml.Node {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return node
	}
	present := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		present[node.Content[i].Value] = true
	}

	out := *node
	out.Content = make([]*yaml.Node, 0, len(node.Content))
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if canonical, ok := aliases[key.Value]; ok {
			if present[canonical] {
				continue
			}
			renamed := *key
			renamed.Value = canonical
			key = &renamed
		}
		out.Content = append(out.Content, key, value)
	}
	return &out
}
