package mapping

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/stoewer/go-strcase"

	"field-mapper/mapper"
)

// TransformRegistry holds named transformers that declarations refer to.
type TransformRegistry struct {
	transforms map[string]mapper.Transformer
}

// NewTransformRegistry creates a new empty transform registry.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{
		transforms: make(map[string]mapper.Transformer),
	}
}

// Builtins returns a registry holding the transforms shipped with the package:
//   - trim: strings.TrimSpace in both directions
//   - lower, upper: case folding in both directions
//   - redact: replaces the value with "***" towards the DTO, passes it through otherwise
//   - csv: joins a list into a comma separated string towards the DTO and splits it back
//   - snake_case: snake_case towards the DTO, UpperCamelCase towards the entity
func Builtins() *TransformRegistry {
	r := NewTransformRegistry()
	r.Add("trim", bothWays(strings.TrimSpace))
	r.Add("lower", bothWays(strings.ToLower))
	r.Add("upper", bothWays(strings.ToUpper))
	r.Add("snake_case", mapper.Transformer{
		ToDTO:   onString(strcase.SnakeCase),
		FromDTO: onString(strcase.UpperCamelCase),
	})
	r.Add("redact", mapper.Transformer{
		ToDTO: func(v any, _ mapper.Scope) (any, error) {
			if v == nil {
				return nil, nil
			}

			return "***", nil
		},
	})
	r.Add("csv", mapper.Transformer{
		ToDTO:   joinCSV,
		FromDTO: splitCSV,
	})

	return r
}

// Add registers a transformer under name, replacing any previous one.
func (r *TransformRegistry) Add(name string, t mapper.Transformer) {
	r.transforms[name] = t
}

// Merge copies every transformer of other into r.
func (r *TransformRegistry) Merge(other *TransformRegistry) {
	if other == nil {
		return
	}

	maps.Copy(r.transforms, other.transforms)
}

// Get returns a transformer by name.
func (r *TransformRegistry) Get(name string) (mapper.Transformer, bool) {
	t, ok := r.transforms[name]
	return t, ok
}

// Has returns true if a transform with the given name exists.
func (r *TransformRegistry) Has(name string) bool {
	_, exists := r.transforms[name]
	return exists
}

// Names returns all transform names, sorted.
func (r *TransformRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r.transforms))
}

// Resolve looks up names in order.
func (r *TransformRegistry) Resolve(names []string) ([]mapper.Transformer, error) {
	result := make([]mapper.Transformer, 0, len(names))

	for _, name := range names {
		t, ok := r.transforms[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownTransform, name)
		}

		result = append(result, t)
	}

	return result, nil
}

// Func adapts a typed conversion to a TransformFunc. A nil value passes
// through untouched; any other value must be a T.
//
// Supports:
//   - Func(func(src T) (dst R, error))
//   - Func(Infallible(func(src T) (dst R)))
func Func[T, R any](fn func(T) (R, error)) mapper.TransformFunc {
	return func(v any, _ mapper.Scope) (any, error) {
		if v == nil {
			return nil, nil
		}

		src, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("expected %s, got %T", reflect.TypeFor[T](), v)
		}

		dst, err := fn(src)
		if err != nil {
			return nil, err
		}

		return dst, nil
	}
}

// Infallible lifts a conversion that cannot fail into the form taken by Func.
func Infallible[T, R any](fn func(T) R) func(T) (R, error) {
	return func(src T) (R, error) {
		return fn(src), nil
	}
}

// Pair builds a transformer from a typed conversion in each direction:
// entity values of type E become DTO values of type D and back.
func Pair[E, D any](toDTO func(E) (D, error), fromDTO func(D) (E, error)) mapper.Transformer {
	return mapper.Transformer{ToDTO: Func(toDTO), FromDTO: Func(fromDTO)}
}

func onString(fn func(string) string) mapper.TransformFunc {
	return Func(Infallible(fn))
}

func bothWays(fn func(string) string) mapper.Transformer {
	return mapper.Transformer{ToDTO: onString(fn), FromDTO: onString(fn)}
}

func joinCSV(v any, _ mapper.Scope) (any, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return strings.Join(list, ","), nil
	case []any:
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}

		return strings.Join(parts, ","), nil
	default:
		return nil, fmt.Errorf("expected list, got %T", v)
	}
}

func splitCSV(v any, _ mapper.Scope) (any, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		if s == "" {
			return []string{}, nil
		}

		return strings.Split(s, ","), nil
	default:
		return nil, fmt.Errorf("expected string, got %T", v)
	}
}
