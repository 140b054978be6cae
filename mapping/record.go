package mapping

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/mashingan/smapping"

	"field-mapper/mapper"
)

var textMarshaler = reflect.TypeFor[encoding.TextMarshaler]()

// ToRecord converts an entity struct into a Record keyed by Go field name.
// Struct values (and pointers and slices of them) are converted recursively,
// except types that marshal themselves to text, such as time.Time.
// A nil pointer yields a nil Record. Every field of the struct must be
// exported; embedded structs become nested records under their type name.
func ToRecord(v any) (mapper.Record, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}

		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %T", ErrNotAStruct, v)
	}

	for i := 0; i < rv.NumField(); i++ {
		if sf := rv.Type().Field(i); !sf.IsExported() {
			return nil, fmt.Errorf("%w: %s has unexported field %s", ErrUnexportedField, rv.Type(), sf.Name)
		}
	}

	rec := mapper.Record(smapping.MapFields(rv.Interface()))
	for key, val := range rec {
		converted, err := toValue(reflect.ValueOf(val))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}

		rec[key] = converted
	}

	return rec, nil
}

func toValue(rv reflect.Value) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	switch {
	case isRecordStruct(rv.Type()):
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil
		}

		return ToRecord(rv.Interface())

	case rv.Kind() == reflect.Slice && isRecordStruct(rv.Type().Elem()):
		if rv.IsNil() {
			return nil, nil
		}

		out := make([]mapper.Record, rv.Len())
		for i := range out {
			v, err := toValue(rv.Index(i))
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}

			out[i], _ = v.(mapper.Record)
		}

		return out, nil

	default:
		return rv.Interface(), nil
	}
}

func isRecordStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct &&
		!t.Implements(textMarshaler) &&
		!reflect.PointerTo(t).Implements(textMarshaler)
}

// FillStruct copies a Record keyed by Go field name into the struct dst
// points to. Records and slices of records are filled into struct, pointer
// and slice fields recursively. Unknown keys and nil values are skipped.
func FillStruct(dst any, rec mapper.Record) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrNotAStruct, dst)
	}

	st := rv.Elem()
	flat := smapping.Mapped{}

	for key, val := range rec {
		sf, ok := st.Type().FieldByName(key)
		if !ok || !sf.IsExported() || val == nil {
			continue
		}

		handled, err := fillValue(st.FieldByIndex(sf.Index), val)
		if err != nil {
			return fmt.Errorf("failed to fill field %s: %w", key, err)
		}

		if !handled {
			flat[key] = val
		}
	}

	if err := smapping.FillStruct(dst, flat); err != nil {
		return fmt.Errorf("failed to fill %T: %w", dst, err)
	}

	return nil
}

func fillValue(fv reflect.Value, val any) (bool, error) {
	if !isRecordStruct(fv.Type()) && !(fv.Kind() == reflect.Slice && isRecordStruct(fv.Type().Elem())) {
		return false, nil
	}

	switch v := val.(type) {
	case mapper.Record:
		return true, fillRecord(fv, v)
	case map[string]any:
		return true, fillRecord(fv, v)
	case []mapper.Record:
		return true, fillSlice(fv, len(v), func(i int) any { return v[i] })
	case []any:
		return true, fillSlice(fv, len(v), func(i int) any { return v[i] })
	default:
		return false, nil
	}
}

func fillRecord(fv reflect.Value, rec mapper.Record) error {
	switch fv.Kind() {
	case reflect.Struct:
		return FillStruct(fv.Addr().Interface(), rec)
	case reflect.Pointer:
		ptr := reflect.New(fv.Type().Elem())
		if err := FillStruct(ptr.Interface(), rec); err != nil {
			return err
		}

		fv.Set(ptr)

		return nil
	default:
		return fmt.Errorf("cannot fill a record into %s", fv.Type())
	}
}

func fillSlice(fv reflect.Value, n int, item func(int) any) error {
	if fv.Kind() != reflect.Slice {
		return fmt.Errorf("cannot fill a list into %s", fv.Type())
	}

	out := reflect.MakeSlice(fv.Type(), n, n)

	for i := range n {
		var rec mapper.Record

		switch v := item(i).(type) {
		case nil:
			continue
		case mapper.Record:
			rec = v
		case map[string]any:
			rec = v
		default:
			return fmt.Errorf("element %d: expected a record, got %T", i, v)
		}

		if err := fillRecord(out.Index(i), rec); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}

	fv.Set(out)

	return nil
}
