package mapping

import (
	"fmt"
	"maps"
	"slices"

	"field-mapper/internal/common"
	"field-mapper/mapper"
)

// MappingFile represents the root of a YAML declaration file.
type MappingFile struct {
	// Version of the declaration schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Models is the list of declared models.
	Models []ModelDecl `yaml:"models"`
}

// ModelDecl declares one mappable model.
type ModelDecl struct {
	// Name identifies the model in the registry and in nested references.
	Name string `yaml:"name"`

	// Defaults pre-populate every freshly allocated record.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Fields in declaration order.
	Fields []FieldDecl `yaml:"fields"`
}

// Defaults holds the initial contents of allocated DTO and entity records.
type Defaults struct {
	DTO    mapper.Record `yaml:"dto,omitempty"`
	Entity mapper.Record `yaml:"entity,omitempty"`
}

// FieldDecl declares one field of a model.
type FieldDecl struct {
	// Name is the DTO key.
	Name string `yaml:"name"`

	// To is the entity key. Defaults to Name.
	To string `yaml:"to,omitempty"`

	// Scopes restricts the field to callers presenting one of these tokens.
	// An empty list leaves the field unrestricted.
	Scopes StringOrArray `yaml:"scopes,omitempty"`

	// Access selects the directions the field takes part in.
	Access AccessMode `yaml:"access,omitempty"`

	// Transforms names registered transforms, in decoding order.
	Transforms StringOrArray `yaml:"transforms,omitempty"`

	// Transformers are applied after the named Transforms. Programmatic only.
	Transformers []mapper.Transformer `yaml:"-"`

	// Nested delegates the value to another declared model.
	Nested *NestedRef `yaml:"nested,omitempty"`
}

// NestedRef is a deferred reference to another model, resolved by name when
// the mapper is built.
type NestedRef struct {
	Model string `yaml:"model"`
	Many  bool   `yaml:"many,omitempty"`
}

// Target returns the entity key of the field.
func (f *FieldDecl) Target() string {
	if f.To != "" {
		return f.To
	}

	return f.Name
}

// HasTransforms returns true if the field declares any custom transform.
func (f *FieldDecl) HasTransforms() bool {
	return len(f.Transforms) > 0 || len(f.Transformers) > 0
}

// Clone returns a deep copy of the declaration lists. Transformer functions
// and default values are shared.
func (m ModelDecl) Clone() ModelDecl {
	m.Defaults = Defaults{DTO: maps.Clone(m.Defaults.DTO), Entity: maps.Clone(m.Defaults.Entity)}
	m.Fields = slices.Clone(m.Fields)

	for i := range m.Fields {
		f := &m.Fields[i]
		f.Scopes = slices.Clone(f.Scopes)
		f.Transforms = slices.Clone(f.Transforms)
		f.Transformers = slices.Clone(f.Transformers)

		if f.Nested != nil {
			n := *f.Nested
			f.Nested = &n
		}
	}

	return m
}

// StringOrArray is a type that can be unmarshaled from either a string or an array of strings.
type StringOrArray []string

// AccessMode selects the directions a field takes part in.
// The zero value enables both directions.
type AccessMode int

const (
	// AccessAll enables serialization and deserialization.
	AccessAll AccessMode = iota
	// AccessRead makes the field serialize only.
	AccessRead
	// AccessWrite makes the field deserialize only.
	AccessWrite
	// AccessNone disables the field in both directions.
	AccessNone
)

// String returns the declaration form of the mode.
func (a AccessMode) String() string {
	switch a {
	case AccessAll:
		return "all"
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessNone:
		return "none"
	default:
		return common.UnknownStr
	}
}

// IsValid returns true if the mode is one of the declared constants.
func (a AccessMode) IsValid() bool {
	return a >= AccessAll && a <= AccessNone
}

// DisableSerialize reports whether the mode excludes entity to DTO conversion.
func (a AccessMode) DisableSerialize() bool {
	return a == AccessWrite || a == AccessNone
}

// DisableDeserialize reports whether the mode excludes DTO to entity conversion.
func (a AccessMode) DisableDeserialize() bool {
	return a == AccessRead || a == AccessNone
}

// ParseAccessMode parses the declaration form of an access mode.
// The empty string is AccessAll.
func ParseAccessMode(s string) (AccessMode, error) {
	switch s {
	case "", "all":
		return AccessAll, nil
	case "read", "readonly":
		return AccessRead, nil
	case "write", "writeonly":
		return AccessWrite, nil
	case "none":
		return AccessNone, nil
	default:
		return AccessAll, fmt.Errorf("%w: %q", ErrInvalidAccess, s)
	}
}
