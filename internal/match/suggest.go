package match

import (
	"fmt"

	"field-mapper/internal/analyze"
	"field-mapper/internal/diagnostic"
	"field-mapper/mapping"
)

// Options tunes Suggest.
type Options struct {
	// Naming derives DTO keys of fields without a json name.
	Naming mapping.Naming
	// MinScore is the lowest combined score accepted for a match.
	MinScore float64
	// MinGap is the lead the best candidate needs over the runner-up.
	MinGap float64
}

// DefaultOptions returns the thresholds used by the CLI.
func DefaultOptions() Options {
	return Options{
		Naming:   mapping.NamingNone,
		MinScore: 0.5,
		MinGap:   0.1,
	}
}

// Suggest builds a declaration named name for the DTO struct dto, mapping
// each field to the entity field of entity that matches it best. Fields that
// already carry a `map` tag keep their declaration. Unmatched and ambiguous
// fields are left out and reported as warnings.
func Suggest(name string, dto, entity *analyze.TypeInfo, opts Options) (mapping.ModelDecl, *diagnostic.Diagnostics, error) {
	res := &diagnostic.Diagnostics{}
	decl := mapping.ModelDecl{Name: name}

	if dto == nil || dto.Kind != analyze.TypeKindStruct || entity == nil || entity.Kind != analyze.TypeKindStruct {
		return decl, res, fmt.Errorf("%w: both sides of a suggestion must be structs", mapping.ErrNotAStruct)
	}

	entityFields := entity.PromotedFields()

	for _, f := range dto.PromotedFields() {
		sf := f.StructField()

		if _, tagged := f.MapTag(); tagged {
			fd, ok, err := sf.Decl(opts.Naming)
			if err != nil {
				return decl, res, fmt.Errorf("model %s: %w", name, err)
			}

			if ok {
				decl.Fields = append(decl.Fields, fd)
				res.AddInfo("declared", "kept the map tag declaration", name, fd.Name)
			}

			continue
		}

		key := sf.Key(opts.Naming)
		candidates := RankCandidates(&f, entityFields)

		best := candidates.HighConfidence(opts.MinScore, opts.MinGap)
		if best == nil {
			reportUnmatched(res, name, key, candidates, opts)
			continue
		}

		fd := mapping.FieldDecl{Name: key, To: best.Entity.Name}

		if ref := nestedRef(f.Type, best.Entity.Type); ref != nil {
			fd.Nested = ref
		} else if best.TypeCompat == TypeNeedsTransform {
			res.AddWarning("needs_transform",
				fmt.Sprintf("%s and %s.%s (%s) need a transform", f.Type, entity.ID.Name, best.Entity.Name, best.Entity.Type),
				name, key)
		}

		res.AddInfo("matched",
			fmt.Sprintf("%s -> %s (score %.2f, %s)", f.Name, best.Entity.Name, best.Score, best.TypeCompat),
			name, key)

		decl.Fields = append(decl.Fields, fd)
	}

	return decl, res, nil
}

func reportUnmatched(res *diagnostic.Diagnostics, model, key string, candidates CandidateList, opts Options) {
	best := candidates.Best()

	if best != nil && best.Score >= opts.MinScore && candidates.IsAmbiguous(opts.MinGap) {
		res.AddWarning("ambiguous_field",
			fmt.Sprintf("%s and %s match equally well", best.Entity.Name, candidates[1].Entity.Name),
			model, key)

		return
	}

	res.AddWarning("unmatched_field", "no entity field matches", model, key)
}

// nestedRef returns a nested reference when both fields hold structs that
// were analyzed from source, so that the DTO side can be declared as a model.
func nestedRef(dto, entity *analyze.TypeInfo) *mapping.NestedRef {
	dtoElem, many := dto.Elem()
	entityElem, _ := entity.Elem()

	if !isLocalStruct(dtoElem) || !isLocalStruct(entityElem) {
		return nil
	}

	return &mapping.NestedRef{Model: dtoElem.ID.Name, Many: many}
}

func isLocalStruct(t *analyze.TypeInfo) bool {
	return t != nil && t.Kind == analyze.TypeKindStruct && t.IsNamed() && len(t.Fields) > 0
}
