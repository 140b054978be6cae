package mapper_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-mapper/mapper"
)

func add(n int) mapper.TransformFunc {
	return func(v any, _ mapper.Scope) (any, error) { return v.(int) + n, nil }
}

func mul(n int) mapper.TransformFunc {
	return func(v any, _ mapper.Scope) (any, error) { return v.(int) * n, nil }
}

func div(n int) mapper.TransformFunc {
	return func(v any, _ mapper.Scope) (any, error) { return v.(int) / n, nil }
}

func TestCombineTransformFuncs(t *testing.T) {
	t.Run("none is identity", func(t *testing.T) {
		fn := mapper.CombineTransformFuncs()
		v, err := fn("x", mapper.NoScope)
		require.NoError(t, err)
		assert.Equal(t, "x", v)
	})

	t.Run("single is applied", func(t *testing.T) {
		fn := mapper.CombineTransformFuncs(add(1))
		v, err := fn(1, mapper.NoScope)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})

	t.Run("left to right", func(t *testing.T) {
		fn := mapper.CombineTransformFuncs(mul(2), add(5))
		v, err := fn(2, mapper.NoScope)
		require.NoError(t, err)
		assert.Equal(t, 9, v)

		fn = mapper.CombineTransformFuncs(add(5), mul(2))
		v, err = fn(2, mapper.NoScope)
		require.NoError(t, err)
		assert.Equal(t, 14, v)
	})

	t.Run("scope reaches every step", func(t *testing.T) {
		var seen []mapper.Scope
		spy := func(v any, s mapper.Scope) (any, error) {
			seen = append(seen, s)
			return v, nil
		}

		_, err := mapper.CombineTransformFuncs(spy, spy, spy)(0, "admin")
		require.NoError(t, err)
		assert.Equal(t, []mapper.Scope{"admin", "admin", "admin"}, seen)
	})

	t.Run("error stops the chain", func(t *testing.T) {
		boom := errors.New("boom")
		called := false
		fn := mapper.CombineTransformFuncs(
			add(1),
			func(any, mapper.Scope) (any, error) { return nil, boom },
			func(v any, _ mapper.Scope) (any, error) {
				called = true
				return v, nil
			},
		)

		_, err := fn(1, mapper.NoScope)
		assert.Same(t, boom, err)
		assert.False(t, called)
	})
}

func TestCombineTransformers(t *testing.T) {
	double := mapper.Transformer{FromDTO: mul(2), ToDTO: div(2)}
	plusFive := mapper.Transformer{FromDTO: add(5), ToDTO: add(-5)}

	combined := mapper.CombineTransformers(double, plusFive)

	v, err := combined.FromDTO(2, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, 9, v)

	v, err = combined.ToDTO(9, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestCombineTransformers_OneDirectionOnly(t *testing.T) {
	onlyFrom := mapper.Transformer{FromDTO: add(1)}
	onlyTo := mapper.Transformer{ToDTO: mul(3)}

	combined := mapper.CombineTransformers(onlyFrom, onlyTo)

	v, err := combined.FromDTO(1, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = combined.ToDTO(1, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestCombineTransformers_Empty(t *testing.T) {
	combined := mapper.CombineTransformers()

	v, err := combined.ToDTO("x", mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func nestedMapper(calls *int) *mapper.Mapper {
	count := func(v any, _ mapper.Scope) (any, error) {
		*calls++
		return v, nil
	}

	return mapper.New(mapper.Config{
		Fields: []mapper.Field{
			{From: "c", To: "c", Transformer: &mapper.Transformer{ToDTO: count, FromDTO: count}},
		},
	})
}

func TestNested_Single(t *testing.T) {
	calls := 0
	tr := mapper.Nested(nestedMapper(&calls), false)

	v, err := tr.ToDTO(mapper.Record{"c": "n1", "secret": "s"}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"c": "n1"}, v)

	v, err = tr.FromDTO(map[string]any{"c": "n1"}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"c": "n1"}, v)
	assert.Equal(t, 2, calls)
}

func TestNested_Many(t *testing.T) {
	calls := 0
	tr := mapper.Nested(nestedMapper(&calls), true)

	in := []mapper.Record{{"c": "n1", "secret": "s"}, {"c": "n2"}}
	v, err := tr.ToDTO(in, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, []mapper.Record{{"c": "n1"}, {"c": "n2"}}, v)

	v, err = tr.FromDTO([]any{map[string]any{"c": "n1"}, mapper.Record{"c": "n2"}}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, []mapper.Record{{"c": "n1"}, {"c": "n2"}}, v)

	v, err = tr.ToDTO([]map[string]any{{"c": "n3"}}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, []mapper.Record{{"c": "n3"}}, v)
	assert.Equal(t, 5, calls)
}

func TestNested_NilSkipsMapper(t *testing.T) {
	calls := 0
	single := mapper.Nested(nestedMapper(&calls), false)
	many := mapper.Nested(nestedMapper(&calls), true)

	for _, tr := range []*mapper.Transformer{single, many} {
		v, err := tr.ToDTO(nil, mapper.NoScope)
		require.NoError(t, err)
		assert.Nil(t, v)

		v, err = tr.FromDTO(nil, mapper.NoScope)
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	v, err := many.ToDTO([]mapper.Record(nil), mapper.NoScope)
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Zero(t, calls)
}

func TestNested_UnexpectedValue(t *testing.T) {
	calls := 0
	single := mapper.Nested(nestedMapper(&calls), false)
	many := mapper.Nested(nestedMapper(&calls), true)

	_, err := single.ToDTO("not a record", mapper.NoScope)
	require.ErrorIs(t, err, mapper.ErrUnexpectedValue)

	_, err = many.ToDTO(mapper.Record{"c": 1}, mapper.NoScope)
	require.ErrorIs(t, err, mapper.ErrUnexpectedValue)

	_, err = many.FromDTO([]any{1}, mapper.NoScope)
	require.ErrorIs(t, err, mapper.ErrUnexpectedValue)
	assert.Zero(t, calls)
}

func TestNested_InsideMapper(t *testing.T) {
	calls := 0
	child := nestedMapper(&calls)
	parent := mapper.New(mapper.Config{
		Fields: []mapper.Field{
			{From: "nestedMany", To: "items", Transformer: mapper.Nested(child, true)},
			{From: "nested", To: "item", Transformer: mapper.Nested(child, false)},
		},
	})

	dto, err := parent.Serialize(mapper.Record{
		"items": []mapper.Record{{"c": "n1"}, {"c": "n2"}},
		"item":  nil,
	}, mapper.NoScope)
	require.NoError(t, err)

	assert.Equal(t, []mapper.Record{{"c": "n1"}, {"c": "n2"}}, dto["nestedMany"])
	assert.Nil(t, dto["nested"])
	assert.Equal(t, 2, calls)
}
