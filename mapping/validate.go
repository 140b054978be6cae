package mapping

import (
	"fmt"

	"field-mapper/internal/diagnostic"
)

// Validate checks the declarations of a mapping file without building them.
// Named transforms are looked up in transforms, or in Builtins when nil.
// Nested references must point at models declared in the same file.
func Validate(mf *MappingFile, transforms *TransformRegistry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError(nil, "mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if transforms == nil {
		transforms = Builtins()
	}

	declared := make(map[string]struct{}, len(mf.Models))

	for i := range mf.Models {
		name := mf.Models[i].Name
		if name == "" {
			continue
		}

		if _, ok := declared[name]; ok {
			res.AddError(ErrAlreadyDeclared, "duplicate_model", fmt.Sprintf("duplicate model %q", name), name, "")
			continue
		}

		declared[name] = struct{}{}
	}

	c := checker{
		transforms: transforms,
		declared: func(name string) bool {
			_, ok := declared[name]
			return ok
		},
		checkNested: true,
	}

	for i := range mf.Models {
		c.model(res, &mf.Models[i])
	}

	return res
}

// checker validates single model declarations.
type checker struct {
	transforms  *TransformRegistry
	declared    func(name string) bool
	strict      bool
	checkNested bool
}

func (c checker) model(res *diagnostic.Diagnostics, decl *ModelDecl) {
	model := decl.Name
	if model == "" {
		res.AddError(ErrEmptyName, "empty_model_name", "model has no name", "", "")
	}

	sources := make(map[string]struct{}, len(decl.Fields))
	targets := make(map[string]string, len(decl.Fields))

	for i := range decl.Fields {
		fd := &decl.Fields[i]

		if fd.Name == "" {
			res.AddError(ErrEmptyName, "empty_field_name", fmt.Sprintf("field #%d has no name", i), model, "")
			continue
		}

		if _, ok := sources[fd.Name]; ok {
			res.AddError(ErrDuplicateField, "duplicate_field", fmt.Sprintf("duplicate field %q", fd.Name), model, fd.Name)
		}

		sources[fd.Name] = struct{}{}

		target := fd.Target()
		if prev, ok := targets[target]; ok {
			msg := fmt.Sprintf("fields %q and %q both map to %q; the last one wins on reverse lookups", prev, fd.Name, target)
			if c.strict {
				res.AddError(ErrDuplicateTarget, "duplicate_target", msg, model, fd.Name)
			} else {
				res.AddWarning("duplicate_target", msg, model, fd.Name)
			}
		}

		targets[target] = fd.Name

		if !fd.Access.IsValid() {
			res.AddError(ErrInvalidAccess, "invalid_access", fmt.Sprintf("invalid access mode %d", int(fd.Access)), model, fd.Name)
		}

		for _, s := range fd.Scopes {
			if s == "" {
				res.AddWarning("empty_scope", "empty scope never matches a caller", model, fd.Name)
			}
		}

		if fd.Nested != nil && fd.HasTransforms() {
			res.AddError(ErrNestedWithTransform, "nested_with_transform",
				"field declares both a nested model and transforms", model, fd.Name)
		}

		for _, name := range fd.Transforms {
			if !c.transforms.Has(name) {
				res.AddError(ErrUnknownTransform, "unknown_transform", fmt.Sprintf("unknown transform %q", name), model, fd.Name)
			}
		}

		if fd.Nested != nil && c.checkNested {
			switch {
			case fd.Nested.Model == "":
				res.AddError(ErrEmptyName, "empty_nested_model", "nested reference has no model", model, fd.Name)
			case !c.declared(fd.Nested.Model):
				res.AddError(ErrNotDeclared, "nested_not_declared",
					fmt.Sprintf("nested model %q is not declared", fd.Nested.Model), model, fd.Name)
			}
		}
	}
}
