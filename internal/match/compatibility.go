package match

import (
	"go/types"

	"field-mapper/internal/common"
)

// TypeCompatibility represents how a DTO field type relates to an entity
// field type.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion requires a custom transform.
	TypeNeedsTransform
	// TypeNested means both sides hold different structs (or pointers or
	// slices of them) that need a nested model.
	TypeNested
	// TypeConvertible means types are convertible using Go's type conversion.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return "identical"
	case TypeAssignable:
		return "assignable"
	case TypeConvertible:
		return "convertible"
	case TypeNested:
		return "nested"
	case TypeNeedsTransform:
		return "needs_transform"
	case TypeIncompatible:
		return "incompatible"
	default:
		return common.UnknownStr
	}
}

// weight maps the level to the 0-1 range used by the combined score.
func (c TypeCompatibility) weight() float64 {
	switch c {
	case TypeIdentical:
		return 1.0
	case TypeAssignable:
		return 0.9
	case TypeConvertible:
		return 0.7
	case TypeNested:
		return 0.6
	case TypeNeedsTransform:
		return 0.4
	default:
		return 0.0
	}
}

// ScoreTypeCompatibility determines the compatibility between a source and
// a target type.
func ScoreTypeCompatibility(source, target types.Type) TypeCompatibility {
	switch {
	case types.Identical(source, target):
		return TypeIdentical
	case types.AssignableTo(source, target):
		return TypeAssignable
	case types.ConvertibleTo(source, target) && sameFamily(source, target):
		return TypeConvertible
	case isStruct(elem(source)) && isStruct(elem(target)):
		return TypeNested
	case needsTransform(source, target):
		return TypeNeedsTransform
	default:
		return TypeIncompatible
	}
}

// needsTransform reports pointer lifting and slices of related elements.
func needsTransform(source, target types.Type) bool {
	if ptr, ok := source.(*types.Pointer); ok && ScoreTypeCompatibility(ptr.Elem(), target) >= TypeConvertible {
		return true
	}

	if ptr, ok := target.(*types.Pointer); ok && ScoreTypeCompatibility(source, ptr.Elem()) >= TypeConvertible {
		return true
	}

	sourceSlice, sourceIsSlice := source.Underlying().(*types.Slice)
	targetSlice, targetIsSlice := target.Underlying().(*types.Slice)

	return sourceIsSlice && targetIsSlice &&
		ScoreTypeCompatibility(sourceSlice.Elem(), targetSlice.Elem()) >= TypeNeedsTransform
}

// elem strips pointers, slices and arrays.
func elem(t types.Type) types.Type {
	for {
		switch tt := t.Underlying().(type) {
		case *types.Pointer:
			t = tt.Elem()
		case *types.Slice:
			t = tt.Elem()
		case *types.Array:
			t = tt.Elem()
		default:
			return t
		}
	}
}

func isStruct(t types.Type) bool {
	_, ok := t.Underlying().(*types.Struct)
	return ok
}

// sameFamily excludes conversions between basic types such as int to
// string, which Go allows but which never describe the same value.
func sameFamily(a, b types.Type) bool {
	ba, okA := a.Underlying().(*types.Basic)
	bb, okB := b.Underlying().(*types.Basic)

	if !okA || !okB {
		return true
	}

	const (
		numeric = types.IsNumeric
		text    = types.IsString
	)

	return ba.Info()&numeric != 0 && bb.Info()&numeric != 0 ||
		ba.Info()&text != 0 && bb.Info()&text != 0
}
