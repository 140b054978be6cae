package mapping

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/stoewer/go-strcase"
)

// TagKey is the struct tag read by DeclareStruct.
const TagKey = "map"

// Naming derives a DTO key from a Go field name.
type Naming string

const (
	// NamingNone keeps the Go field name.
	NamingNone Naming = "none"
	// NamingSnake converts to snake_case.
	NamingSnake Naming = "snake"
	// NamingCamel converts to lowerCamelCase.
	NamingCamel Naming = "camel"
	// NamingKebab converts to kebab-case.
	NamingKebab Naming = "kebab"
)

// ParseNaming parses a naming strategy. The empty string is NamingNone.
func ParseNaming(s string) (Naming, error) {
	switch n := Naming(s); n {
	case "":
		return NamingNone, nil
	case NamingNone, NamingSnake, NamingCamel, NamingKebab:
		return n, nil
	default:
		return NamingNone, fmt.Errorf("unknown naming %q (expected none, snake, camel or kebab)", s)
	}
}

// Apply converts a Go field name according to the strategy.
func (n Naming) Apply(name string) string {
	switch n {
	case NamingSnake:
		return strcase.SnakeCase(name)
	case NamingCamel:
		return strcase.LowerCamelCase(name)
	case NamingKebab:
		return strcase.KebabCase(name)
	default:
		return name
	}
}

// Tag represents a parsed `map` struct tag.
type Tag struct {
	Name        string
	To          string
	Scopes      []string
	Access      AccessMode
	Transforms  []string
	Nested      bool
	NestedModel string
	Many        bool
	Skip        bool
}

// ParseTag parses the value of a `map` struct tag.
func ParseTag(tagStr string) (Tag, error) {
	tag := Tag{}

	tagStr = strings.TrimSpace(tagStr)
	if tagStr == "-" {
		tag.Skip = true
		return tag, nil
	}

	for _, part := range strings.Split(tagStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, val, _ := strings.Cut(part, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		switch key {
		case "name":
			if val == "" {
				return Tag{}, fmt.Errorf("%w: name requires a value", ErrInvalidTag)
			}

			tag.Name = val
		case "to":
			if val == "" {
				return Tag{}, fmt.Errorf("%w: to requires a value", ErrInvalidTag)
			}

			tag.To = val
		case "scope", "scopes":
			tag.Scopes = splitList(val)
		case "access":
			mode, err := ParseAccessMode(val)
			if err != nil {
				return Tag{}, fmt.Errorf("%w: %w", ErrInvalidTag, err)
			}

			tag.Access = mode
		case "readonly":
			tag.Access = AccessRead
		case "writeonly":
			tag.Access = AccessWrite
		case "transform", "transforms":
			tag.Transforms = splitList(val)
		case "nested":
			tag.Nested = true
			tag.NestedModel = val
		case "many":
			tag.Many = true
		default:
			return Tag{}, fmt.Errorf("%w: unknown key %q", ErrInvalidTag, key)
		}
	}

	if tag.Many && !tag.Nested {
		return Tag{}, fmt.Errorf("%w: many requires nested", ErrInvalidTag)
	}

	return tag, nil
}

func splitList(s string) []string {
	var out []string

	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

// StructField describes a struct field independently of how it was
// discovered (reflection or source analysis).
type StructField struct {
	// Name is the Go field name.
	Name string
	// Tag is the raw struct tag.
	Tag reflect.StructTag
	// ElemType is the name of the field type once pointers, slices and arrays
	// are removed. Empty for unnamed types.
	ElemType string
	// IsSlice is true for slice and array fields.
	IsSlice bool
}

// Decl converts the field into a declaration. ok is false for fields without
// a `map` tag and for fields tagged `map:"-"`.
func (sf StructField) Decl(naming Naming) (FieldDecl, bool, error) {
	raw, tagged := sf.Tag.Lookup(TagKey)
	if !tagged {
		return FieldDecl{}, false, nil
	}

	tag, err := ParseTag(raw)
	if err != nil {
		return FieldDecl{}, false, fmt.Errorf("field %s: %w", sf.Name, err)
	}

	if tag.Skip {
		return FieldDecl{}, false, nil
	}

	fd := FieldDecl{
		Name:       sf.key(tag, naming),
		To:         sf.Name,
		Scopes:     tag.Scopes,
		Access:     tag.Access,
		Transforms: tag.Transforms,
	}

	if tag.To != "" {
		fd.To = tag.To
	}

	if tag.Nested {
		model := tag.NestedModel
		if model == "" {
			model = sf.ElemType
		}

		if model == "" {
			return FieldDecl{}, false, fmt.Errorf("field %s: %w: cannot infer nested model of an unnamed type", sf.Name, ErrInvalidTag)
		}

		fd.Nested = &NestedRef{Model: model, Many: tag.Many || (tag.NestedModel == "" && sf.IsSlice)}
	}

	return fd, true, nil
}

func (sf StructField) key(tag Tag, naming Naming) string {
	if tag.Name != "" {
		return tag.Name
	}

	return sf.Key(naming)
}

// Key returns the DTO key of an untagged field: its json name, or the Go
// name converted by naming.
func (sf StructField) Key(naming Naming) string {
	if name := JSONName(sf.Tag); name != "" {
		return name
	}

	return naming.Apply(sf.Name)
}

// JSONName returns the name part of a json tag, or "" when there is none.
func JSONName(st reflect.StructTag) string {
	tag := st.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}

	name, _, _ := strings.Cut(tag, ",")

	return name
}

// LayeredField is a StructField found at some embedding depth.
type LayeredField struct {
	StructField
	Depth int
}

// ModelFromFields builds a model declaration from struct fields listed in
// source order. A field found at a shallower depth replaces a deeper one with
// the same DTO key, keeping the position of the deeper one.
func ModelFromFields(name string, fields []LayeredField, naming Naming) (ModelDecl, error) {
	type entry struct {
		decl  FieldDecl
		depth int
	}

	var (
		out   []entry
		index = map[string]int{}
	)

	for _, lf := range fields {
		fd, ok, err := lf.Decl(naming)
		if err != nil {
			return ModelDecl{}, fmt.Errorf("model %s: %w", name, err)
		}

		if !ok {
			continue
		}

		if j, seen := index[fd.Name]; seen && out[j].depth != lf.Depth {
			if lf.Depth < out[j].depth {
				out[j] = entry{decl: fd, depth: lf.Depth}
			}

			continue
		}

		index[fd.Name] = len(out)
		out = append(out, entry{decl: fd, depth: lf.Depth})
	}

	decl := ModelDecl{Name: name, Fields: make([]FieldDecl, len(out))}
	for i, e := range out {
		decl.Fields[i] = e.decl
	}

	return decl, nil
}

// DeclareStruct declares a model from the `map` tags of a struct type.
// v may be a struct value, a pointer to a struct or a reflect.Type.
// An empty name uses the Go type name.
func (r *Registry) DeclareStruct(name string, v any) error {
	typ, ok := v.(reflect.Type)
	if !ok {
		typ = reflect.TypeOf(v)
	}

	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ == nil || typ.Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %v", ErrNotAStruct, typ)
	}

	if name == "" {
		name = typ.Name()
	}

	decl, err := ModelFromFields(name, reflectFields(typ, 0, map[reflect.Type]bool{}), r.naming)
	if err != nil {
		return fmt.Errorf("failed to declare struct %s: %w", typ, err)
	}

	return r.Declare(decl)
}

func reflectFields(typ reflect.Type, depth int, visiting map[reflect.Type]bool) []LayeredField {
	visiting[typ] = true
	defer delete(visiting, typ)

	var fields []LayeredField

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)

		if _, tagged := sf.Tag.Lookup(TagKey); sf.Anonymous && !tagged {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}

			if et.Kind() == reflect.Struct && !visiting[et] {
				fields = append(fields, reflectFields(et, depth+1, visiting)...)
			}

			continue
		}

		if !sf.IsExported() {
			continue
		}

		elem, isSlice := elemType(sf.Type)
		fields = append(fields, LayeredField{
			StructField: StructField{
				Name:     sf.Name,
				Tag:      sf.Tag,
				ElemType: elem.Name(),
				IsSlice:  isSlice,
			},
			Depth: depth,
		})
	}

	return fields
}

func elemType(t reflect.Type) (reflect.Type, bool) {
	isSlice := false

	for {
		switch t.Kind() {
		case reflect.Pointer:
			t = t.Elem()
		case reflect.Slice, reflect.Array:
			isSlice = true
			t = t.Elem()
		default:
			return t, isSlice
		}
	}
}
