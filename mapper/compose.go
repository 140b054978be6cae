package mapper

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrUnexpectedValue is returned by nested transformers when a value is not a
// record or a sequence of records.
var ErrUnexpectedValue = errors.New("unexpected value for nested mapper")

// CombineTransformFuncs composes fns left to right: the output of fns[0] is the
// input of fns[1] and so on. No functions compose to the identity and a single
// function is returned unchanged. The first error stops the chain.
func CombineTransformFuncs(fns ...TransformFunc) TransformFunc {
	switch len(fns) {
	case 0:
		return func(value any, _ Scope) (any, error) { return value, nil }
	case 1:
		return fns[0]
	}

	return func(value any, scope Scope) (any, error) {
		var err error
		for _, fn := range fns {
			value, err = fn(value, scope)
			if err != nil {
				return nil, err
			}
		}

		return value, nil
	}
}

// CombineTransformers merges ts into one Transformer. FromDTO applies the
// transformers in the given order and ToDTO applies them in reverse, so that
// encoding undoes decoding layer by layer.
func CombineTransformers(ts ...Transformer) Transformer {
	fromDTO := lo.Map(ts, func(t Transformer, _ int) TransformFunc { return orIdentity(t.FromDTO) })
	toDTO := lo.Map(ts, func(t Transformer, _ int) TransformFunc { return orIdentity(t.ToDTO) })
	slices.Reverse(toDTO)

	return Transformer{
		ToDTO:   CombineTransformFuncs(toDTO...),
		FromDTO: CombineTransformFuncs(fromDTO...),
	}
}

// Nested wraps m as a Transformer for a sub-record, or for a sequence of
// sub-records when many is set. A nil value is returned as nil without
// calling m.
func Nested(m *Mapper, many bool) *Transformer {
	if many {
		return &Transformer{
			ToDTO: func(value any, scope Scope) (any, error) {
				return mapEach(value, scope, m.Serialize)
			},
			FromDTO: func(value any, scope Scope) (any, error) {
				return mapEach(value, scope, m.Deserialize)
			},
		}
	}

	return &Transformer{
		ToDTO: func(value any, scope Scope) (any, error) {
			return mapOne(value, scope, m.Serialize)
		},
		FromDTO: func(value any, scope Scope) (any, error) {
			return mapOne(value, scope, m.Deserialize)
		},
	}
}

type recordFunc func(Record, Scope) (Record, error)

func orIdentity(fn TransformFunc) TransformFunc {
	if fn == nil {
		return func(value any, _ Scope) (any, error) { return value, nil }
	}

	return fn
}

func asRecord(value any) (Record, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case Record:
		return v, true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}

func mapOne(value any, scope Scope, fn recordFunc) (any, error) {
	rec, ok := asRecord(value)
	if !ok {
		return nil, fmt.Errorf("%w: expected a record, got %T", ErrUnexpectedValue, value)
	}

	if rec == nil {
		return nil, nil
	}

	return fn(rec, scope)
}

func mapEach(value any, scope Scope, fn recordFunc) (any, error) {
	var items []any

	switch v := value.(type) {
	case nil:
		return nil, nil
	case []Record:
		if v == nil {
			return nil, nil
		}

		items = lo.ToAnySlice(v)
	case []map[string]any:
		if v == nil {
			return nil, nil
		}

		items = lo.ToAnySlice(v)
	case []any:
		if v == nil {
			return nil, nil
		}

		items = v
	default:
		return nil, fmt.Errorf("%w: expected a sequence of records, got %T", ErrUnexpectedValue, value)
	}

	out := make([]Record, len(items))
	for i, item := range items {
		rec, ok := asRecord(item)
		if !ok {
			return nil, fmt.Errorf("%w: element %d: expected a record, got %T", ErrUnexpectedValue, i, item)
		}

		if rec == nil {
			continue
		}

		mapped, err := fn(rec, scope)
		if err != nil {
			return nil, err
		}

		out[i] = mapped
	}

	return out, nil
}
