package analyze

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"field-mapper/mapping"
)

// Export builds a mapping file from every struct of the graph that has at
// least one `map` tagged field, including fields promoted from embedded
// structs. Models are named after their Go type, so two mappable types with
// the same name in different packages are reported as an error.
func Export(graph *TypeGraph, naming mapping.Naming) (*mapping.MappingFile, error) {
	mf := &mapping.MappingFile{Version: mapping.CurrentVersion}
	owners := make(map[string]TypeID)

	var errs []error

	for _, path := range slices.Sorted(maps.Keys(graph.Packages)) {
		for _, id := range graph.Packages[path].Types {
			info := graph.GetType(id)
			if info == nil || info.Kind != TypeKindStruct {
				continue
			}

			fields := flatten(info, 0, map[*TypeInfo]bool{})
			if !hasMapTag(fields) {
				continue
			}

			if prev, ok := owners[id.Name]; ok {
				errs = append(errs, fmt.Errorf("%w: %s is declared by %s and %s", mapping.ErrAlreadyDeclared, id.Name, prev, id))
				continue
			}

			owners[id.Name] = id

			decl, err := mapping.ModelFromFields(id.Name, fields, naming)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				continue
			}

			mf.Models = append(mf.Models, decl)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return mf, nil
}

// ExportPackages loads patterns and exports their mappable structs.
func ExportPackages(naming mapping.Naming, patterns []string, opts ...Option) (*mapping.MappingFile, error) {
	graph, err := NewAnalyzer(opts...).LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	return Export(graph, naming)
}

// flatten lists the fields of a struct in source order. Untagged embedded
// structs are replaced by their own fields one level deeper.
func flatten(info *TypeInfo, depth int, visiting map[*TypeInfo]bool) []mapping.LayeredField {
	visiting[info] = true
	defer delete(visiting, info)

	var out []mapping.LayeredField

	for i := range info.Fields {
		f := &info.Fields[i]

		if _, tagged := f.MapTag(); f.Embedded && !tagged {
			if elem := embeddedStruct(f.Type); elem != nil && !visiting[elem] {
				out = append(out, flatten(elem, depth+1, visiting)...)
			}

			continue
		}

		if !f.Exported {
			continue
		}

		out = append(out, mapping.LayeredField{StructField: f.StructField(), Depth: depth})
	}

	return out
}

func embeddedStruct(t *TypeInfo) *TypeInfo {
	if t != nil && t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	if t == nil || t.Kind != TypeKindStruct {
		return nil
	}

	return t
}

func hasMapTag(fields []mapping.LayeredField) bool {
	return slices.ContainsFunc(fields, func(f mapping.LayeredField) bool {
		_, ok := f.Tag.Lookup(mapping.TagKey)
		return ok
	})
}
