package mapper

import "slices"

// Record is the object shape read and written by a Mapper.
// A nil Record stands for an absent input.
type Record map[string]any

// Scope is an opaque access token compared by equality.
type Scope string

// NoScope is the scope used by callers that present no token.
const NoScope Scope = ""

// TransformFunc converts a single field value in one direction.
type TransformFunc func(value any, scope Scope) (any, error)

// Transformer holds the two directions of a value conversion.
// A nil direction leaves the value unchanged.
type Transformer struct {
	ToDTO   TransformFunc
	FromDTO TransformFunc
}

// Field is one mapping rule between a DTO key and an entity key.
type Field struct {
	// From is the DTO key.
	From string
	// To is the entity key.
	To string
	// Scopes restricts visibility. A nil slice means unrestricted; a non-nil
	// empty slice hides the field from every caller.
	Scopes []Scope
	// DisableSerialize excludes the field from entity to DTO conversion.
	DisableSerialize bool
	// DisableDeserialize excludes the field from DTO to entity conversion.
	DisableDeserialize bool
	// Transformer is applied to the value before it is written, if set.
	Transformer *Transformer
}

// Config is the table a Mapper is built from.
type Config struct {
	Fields []Field
	// NewDTO allocates the destination of Serialize. Defaults to an empty Record.
	NewDTO func() Record
	// NewEntity allocates the destination of Deserialize. Defaults to an empty Record.
	NewEntity func() Record
}

// Resolved is a translated key together with its transformed value.
type Resolved struct {
	Key   string
	Value any
}

// HasScope reports whether scope may see f.
func HasScope(f *Field, scope Scope) bool {
	if f.Scopes == nil {
		return true
	}

	return scope != NoScope && slices.Contains(f.Scopes, scope)
}

// CanDeserialize reports whether f takes part in DTO to entity conversion for scope.
func CanDeserialize(f *Field, scope Scope) bool {
	return f != nil && !f.DisableDeserialize && HasScope(f, scope)
}

// CanSerialize reports whether f takes part in entity to DTO conversion for scope.
func CanSerialize(f *Field, scope Scope) bool {
	return f != nil && !f.DisableSerialize && HasScope(f, scope)
}
