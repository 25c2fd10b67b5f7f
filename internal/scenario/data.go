package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/mte/pkg/observable"
)

// mapKey marks a mapping that becomes an observable.Map.
const mapKey = "$map"

// Convert turns a YAML node into observable data. Key order is kept.
func Convert(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return Convert(node.Content[0])
	case yaml.AliasNode:
		return Convert(node.Alias)
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := Convert(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return observable.NewSequence(items...), nil
	case yaml.MappingNode:
		if len(node.Content) == 2 && node.Content[0].Value == mapKey {
			return convertMap(node.Content[1])
		}
		obj := observable.NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := Convert(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Store(node.Content[i].Value, v)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}

func convertMap(node *yaml.Node) (*observable.Map, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s must be a mapping", node.Line, mapKey)
	}
	m := observable.NewMap()
	for i := 0; i+1 < len(node.Content); i += 2 {
		v, err := Convert(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		if err := m.Set(node.Content[i].Value, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewData converts the scenario's data. Each call returns fresh values.
func (s *Scenario) NewData() (any, error) {
	return Convert(&s.Data)
}
