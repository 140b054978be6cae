package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"field-mapper/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = nil
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- AccessMode YAML methods ---

// UnmarshalYAML parses an access mode from its declaration form.
func (a *AccessMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected access mode string, got %v", node.Kind)
	}

	mode, err := ParseAccessMode(node.Value)
	if err != nil {
		return err
	}

	*a = mode

	return nil
}

// MarshalYAML writes the declaration form of the access mode.
func (a AccessMode) MarshalYAML() (any, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAccess, int(a))
	}

	return a.String(), nil
}

// --- NestedRef YAML methods ---

type nestedRefFields NestedRef

// UnmarshalYAML implements custom YAML unmarshaling for NestedRef.
// Accepts:
//   - Model name: OrgDTO
//   - Full form: {model: TagDTO, many: true}
func (n *NestedRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*n = NestedRef{Model: node.Value}
		return nil

	case yaml.MappingNode:
		var fields nestedRefFields

		err := node.Decode(&fields)
		if err != nil {
			return err
		}

		*n = NestedRef(fields)

		return nil

	default:
		return fmt.Errorf("expected model name or map, got %v", node.Kind)
	}
}

// MarshalYAML outputs the model name alone unless Many is set.
func (n NestedRef) MarshalYAML() (any, error) {
	if !n.Many {
		return n.Model, nil
	}

	return nestedRefFields(n), nil
}
