package analyze

import (
	"fmt"
	"go/types"
	"reflect"
	"slices"

	"field-mapper/internal/common"
	"field-mapper/mapping"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "field-mapper/examples/users"
	Name    string // e.g., "User"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short qualifies the name with the package name only, as in "time.Time".
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // array of another type
	TypeKindMap               // map type
	TypeKindAlias             // named type wrapping a non-struct type
	TypeKindExternal          // external/opaque type (e.g., a named interface from another package)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named non-struct types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	Fields     []FieldInfo // For structs, the list of exported and embedded fields
	GoType     types.Type  // The original go/types.Type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Elem strips pointers, slices and arrays. many is true if a slice or an
// array was stripped on the way.
func (t *TypeInfo) Elem() (elem *TypeInfo, many bool) {
	for t != nil {
		switch t.Kind {
		case TypeKindPointer:
			t = t.ElemType
		case TypeKindSlice, TypeKindArray:
			many = true
			t = t.ElemType
		default:
			return t, many
		}
	}

	return nil, many
}

// String returns a short Go-like rendering of the type.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindPointer:
		return "*" + t.ElemType.String()
	case TypeKindSlice:
		return "[]" + t.ElemType.String()
	case TypeKindStruct, TypeKindAlias, TypeKindExternal:
		if t.IsNamed() {
			return t.ID.Short()
		}

		return t.GoType.String()
	default:
		return t.GoType.String()
	}
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// MapTag returns the raw `map` tag and whether it is present.
func (f *FieldInfo) MapTag() (string, bool) {
	return f.Tag.Lookup(mapping.TagKey)
}

// StructField converts the field to the form understood by the mapping package.
func (f *FieldInfo) StructField() mapping.StructField {
	sf := mapping.StructField{Name: f.Name, Tag: f.Tag}

	if elem, many := f.Type.Elem(); elem != nil {
		sf.ElemType = elem.ID.Name
		sf.IsSlice = many
	}

	return sf
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package, sorted by name
}

// PromotedFields returns the exported fields of a struct in source order,
// with the fields of untagged embedded structs inlined. A field declared at a
// shallower depth hides a deeper one with the same Go name.
func (t *TypeInfo) PromotedFields() []FieldInfo {
	var (
		out   []FieldInfo
		depth = map[string]int{}
	)

	var walk func(info *TypeInfo, level int, visiting map[*TypeInfo]bool)
	walk = func(info *TypeInfo, level int, visiting map[*TypeInfo]bool) {
		visiting[info] = true
		defer delete(visiting, info)

		for _, f := range info.Fields {
			if _, tagged := f.MapTag(); f.Embedded && !tagged {
				if elem := embeddedStruct(f.Type); elem != nil && !visiting[elem] {
					walk(elem, level+1, visiting)
				}

				continue
			}

			if !f.Exported {
				continue
			}

			if prev, seen := depth[f.Name]; seen {
				if level < prev {
					i := slices.IndexFunc(out, func(o FieldInfo) bool { return o.Name == f.Name })
					out[i] = f
					depth[f.Name] = level
				}

				continue
			}

			depth[f.Name] = level
			out = append(out, f)
		}
	}

	if t != nil && t.Kind == TypeKindStruct {
		walk(t, 0, map[*TypeInfo]bool{})
	}

	return out
}

// FindStruct looks up a struct by "import/path.Name" or by its bare name.
// A bare name must be unique across the loaded packages.
func (g *TypeGraph) FindStruct(name string) (*TypeInfo, error) {
	var found []*TypeInfo

	for id, info := range g.Types {
		if info.Kind != TypeKindStruct {
			continue
		}

		if id.String() == name {
			return info, nil
		}

		if id.Name == name {
			found = append(found, info)
		}
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("struct %s not found", name)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("struct name %s is ambiguous, use the full import path", name)
	}
}
