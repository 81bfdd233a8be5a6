package packagejson

import (
	"fmt"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

// PersonData describes an author, contributor or maintainer.
type PersonData struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
}

// People maps person ids to their details.
type People = orderedmap.Map[PersonData]

// Person is either an id from the people map or literal details.
type Person struct {
	ID   string
	Data *PersonData
}

// PersonID references an entry of the people map.
func PersonID(id string) Person {
	return Person{ID: id}
}

func (p Person) key() string {
	if p.Data != nil {
		return "data:" + p.Data.Name + "\x00" + p.Data.Email + "\x00" + p.Data.URL
	}
	return "id:" + p.ID
}

func (p *Person) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&p.ID)
	case yaml.MappingNode:
		p.Data = &PersonData{}
		return node.Decode(p.Data)
	default:
		return fmt.Errorf("%w: line %d: expected a person id or a person definition", errUtils.ErrUnsupportedValue, node.Line)
	}
}

func (p Person) MarshalYAML() (any, error) {
	if p.Data != nil {
		return p.Data, nil
	}
	return p.ID, nil
}

func (p Person) MarshalJSON() ([]byte, error) {
	if p.Data != nil {
		return jsonAPI.Marshal(p.Data)
	}
	return jsonAPI.Marshal(p.ID)
}

// materialize swaps an id for the details stored under it. Unknown ids are kept as they are.
func (p Person) materialize(people *People) Person {
	if p.Data != nil {
		return p
	}
	if data, ok := people.Get(p.ID); ok {
		return Person{Data: &data}
	}
	return p
}

// mergePeople is the union of left and right, left entries first.
func mergePeople(left, right []Person) []Person {
	if len(right) == 0 {
		return left
	}
	if len(left) == 0 {
		return right
	}
	seen := make(map[string]bool, len(left)+len(right))
	out := make([]Person, 0, len(left)+len(right))
	for _, p := range append(append([]Person(nil), left...), right...) {
		if seen[p.key()] {
			continue
		}
		seen[p.key()] = true
		out = append(out, p)
	}
	return out
}
