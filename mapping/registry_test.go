package mapping

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-mapper/mapper"
)

func declareAll(t *testing.T, r *Registry, decls ...ModelDecl) {
	t.Helper()

	for _, d := range decls {
		require.NoError(t, r.Declare(d))
	}
}

var (
	dtoB = ModelDecl{Name: "DtoB", Fields: []FieldDecl{{Name: "c"}}}
	dtoA = ModelDecl{Name: "DtoA", Fields: []FieldDecl{
		{Name: "a", Scopes: StringOrArray{"admin"}},
		{Name: "b", To: "c"},
		{Name: "nested", Nested: &NestedRef{Model: "DtoB"}},
		{Name: "nestedMany", Nested: &NestedRef{Model: "DtoB", Many: true}},
	}}
)

func TestRegistry_NestedSerialize(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r, dtoA, dtoB)

	m, err := r.Build("DtoA")
	require.NoError(t, err)

	entity := mapper.Record{
		"a":          "a",
		"c":          "c",
		"nested":     mapper.Record{"c": "nested-c", "secret": "secret"},
		"nestedMany": []mapper.Record{{"c": "nested-many-c", "secret": "secret"}},
	}

	dto, err := m.Serialize(entity, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{
		"b":          "c",
		"nested":     mapper.Record{"c": "nested-c"},
		"nestedMany": []mapper.Record{{"c": "nested-many-c"}},
	}, dto)

	admin, err := m.Serialize(entity, "admin")
	require.NoError(t, err)
	assert.Equal(t, "a", admin["a"])
}

func TestRegistry_NestedDeserialize(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r, dtoA, dtoB)

	m := r.MustBuild("DtoA")

	dto := mapper.Record{
		"a":          "a",
		"b":          "c",
		"nested":     map[string]any{"c": "nested-c"},
		"nestedMany": []any{map[string]any{"c": "nested-many-c"}},
	}

	entity, err := m.Deserialize(dto, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{
		"c":          "c",
		"nested":     mapper.Record{"c": "nested-c"},
		"nestedMany": []mapper.Record{{"c": "nested-many-c"}},
	}, entity)

	admin, err := m.Deserialize(dto, "admin")
	require.NoError(t, err)
	assert.Equal(t, "a", admin["a"])
}

func TestRegistry_NestedScopeIsForwarded(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r,
		ModelDecl{Name: "Outer", Fields: []FieldDecl{{Name: "inner", Nested: &NestedRef{Model: "Inner"}}}},
		ModelDecl{Name: "Inner", Fields: []FieldDecl{
			{Name: "public"},
			{Name: "private", Scopes: StringOrArray{"admin"}},
		}},
	)

	entity := mapper.Record{"inner": mapper.Record{"public": 1, "private": 2}}

	dto, err := r.MustBuild("Outer").Serialize(entity, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"inner": mapper.Record{"public": 1}}, dto)

	dto, err = r.MustBuild("Outer").Serialize(entity, "admin")
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"inner": mapper.Record{"public": 1, "private": 2}}, dto)
}

func TestRegistry_NestedOfNestedPassesThrough(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r,
		ModelDecl{Name: "Node", Fields: []FieldDecl{
			{Name: "id", To: "ID"},
			{Name: "child", To: "Child", Nested: &NestedRef{Model: "Node"}},
		}},
	)

	entity := mapper.Record{
		"ID": 1,
		"Child": mapper.Record{
			"ID":    2,
			"Child": mapper.Record{"ID": 3},
		},
	}

	dto, err := r.MustBuild("Node").Serialize(entity, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{
		"id": 1,
		"child": mapper.Record{
			"id":    2,
			"child": mapper.Record{"ID": 3},
		},
	}, dto)
}

func TestRegistry_CyclicModels(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r,
		ModelDecl{Name: "Author", Fields: []FieldDecl{
			{Name: "name"},
			{Name: "books", Nested: &NestedRef{Model: "Book", Many: true}},
		}},
		ModelDecl{Name: "Book", Fields: []FieldDecl{
			{Name: "title"},
			{Name: "author", Nested: &NestedRef{Model: "Author"}},
		}},
	)

	author, err := r.Build("Author")
	require.NoError(t, err)

	book, err := r.Build("Book")
	require.NoError(t, err)

	dto, err := author.Serialize(mapper.Record{
		"name":  "Ada",
		"books": []any{mapper.Record{"title": "Notes", "author": "raw"}},
	}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{
		"name":  "Ada",
		"books": []mapper.Record{{"title": "Notes", "author": "raw"}},
	}, dto)

	_, err = book.Serialize(mapper.Record{"author": "not a record"}, mapper.NoScope)
	assert.ErrorIs(t, err, mapper.ErrUnexpectedValue)
}

func TestRegistry_BuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		decls   []ModelDecl
		build   string
		wantErr error
	}{
		{
			name:    "not declared",
			build:   "Missing",
			wantErr: ErrNotDeclared,
		},
		{
			name: "nested not declared",
			decls: []ModelDecl{{Name: "A", Fields: []FieldDecl{
				{Name: "b", Nested: &NestedRef{Model: "B"}},
			}}},
			build:   "A",
			wantErr: ErrNotDeclared,
		},
		{
			name: "nested with transform",
			decls: []ModelDecl{
				{Name: "A", Fields: []FieldDecl{
					{Name: "b", Nested: &NestedRef{Model: "B"}, Transforms: StringOrArray{"trim"}},
				}},
				{Name: "B"},
			},
			build:   "A",
			wantErr: ErrNestedWithTransform,
		},
		{
			name: "nested with programmatic transformer",
			decls: []ModelDecl{
				{Name: "A", Fields: []FieldDecl{
					{Name: "b", Nested: &NestedRef{Model: "B"}, Transformers: []mapper.Transformer{{}}},
				}},
				{Name: "B"},
			},
			build:   "A",
			wantErr: ErrNestedWithTransform,
		},
		{
			name: "unknown transform",
			decls: []ModelDecl{{Name: "A", Fields: []FieldDecl{
				{Name: "a", Transforms: StringOrArray{"rot13"}},
			}}},
			build:   "A",
			wantErr: ErrUnknownTransform,
		},
		{
			name: "invalid nested model",
			decls: []ModelDecl{
				{Name: "A", Fields: []FieldDecl{{Name: "b", Nested: &NestedRef{Model: "B"}}}},
				{Name: "B", Fields: []FieldDecl{{Name: "x"}, {Name: "x"}}},
			},
			build:   "A",
			wantErr: ErrDuplicateField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			declareAll(t, r, tt.decls...)

			m, err := r.Build(tt.build)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, m)

			assert.Panics(t, func() { r.MustBuild(tt.build) })
		})
	}
}

func TestRegistry_Declare(t *testing.T) {
	r := NewRegistry()

	err := r.Declare(ModelDecl{})
	assert.ErrorIs(t, err, ErrEmptyName)

	require.NoError(t, r.Declare(dtoB))
	assert.True(t, r.Has("DtoB"))
	assert.False(t, r.Has("DtoA"))

	err = r.Declare(dtoB)
	assert.ErrorIs(t, err, ErrAlreadyDeclared)

	err = r.DeclareFile(&MappingFile{Models: []ModelDecl{dtoA, dtoB, {}}})
	assert.ErrorIs(t, err, ErrAlreadyDeclared)
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.True(t, r.Has("DtoA"))
	assert.Equal(t, []string{"DtoA", "DtoB"}, r.Models())

	_, ok := r.Declaration("Missing")
	assert.False(t, ok)
}

func TestRegistry_DeclarationIsCopied(t *testing.T) {
	r := NewRegistry()

	decl := ModelDecl{Name: "A", Fields: []FieldDecl{{Name: "a", Scopes: StringOrArray{"admin"}}}}
	require.NoError(t, r.Declare(decl))

	decl.Fields[0].Scopes[0] = "other"
	decl.Fields[0].Name = "changed"

	got, ok := r.Declaration("A")
	require.True(t, ok)
	assert.Equal(t, "a", got.Fields[0].Name)
	assert.Equal(t, StringOrArray{"admin"}, got.Fields[0].Scopes)

	got.Fields[0].Name = "changed again"

	again, _ := r.Declaration("A")
	assert.Equal(t, "a", again.Fields[0].Name)
}

func TestRegistry_AccessModes(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r, ModelDecl{Name: "Account", Fields: []FieldDecl{
		{Name: "id"},
		{Name: "created", Access: AccessRead},
		{Name: "password", Access: AccessWrite},
		{Name: "internal", Access: AccessNone},
	}})

	m := r.MustBuild("Account")

	tests := []struct {
		field                string
		canSerialize, canDes bool
	}{
		{"id", true, true},
		{"created", true, false},
		{"password", false, true},
		{"internal", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f, ok := m.Lookup(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.canSerialize, mapper.CanSerialize(&f, mapper.NoScope))
			assert.Equal(t, tt.canDes, mapper.CanDeserialize(&f, mapper.NoScope))
		})
	}

	entity, err := m.Deserialize(mapper.Record{"id": 1, "created": "now", "password": "pw", "internal": true}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"id": 1, "password": "pw"}, entity)

	dto, err := m.Serialize(mapper.Record{"id": 1, "created": "now", "password": "pw", "internal": true}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"id": 1, "created": "now"}, dto)
}

func TestRegistry_TransformOrder(t *testing.T) {
	var calls []string

	trace := func(name string) mapper.Transformer {
		return mapper.Transformer{
			ToDTO: func(v any, _ mapper.Scope) (any, error) {
				calls = append(calls, "to:"+name)
				return v, nil
			},
			FromDTO: func(v any, _ mapper.Scope) (any, error) {
				calls = append(calls, "from:"+name)
				return v, nil
			},
		}
	}

	custom := NewTransformRegistry()
	custom.Add("first", trace("first"))
	custom.Add("second", trace("second"))

	r := NewRegistry(WithTransforms(custom))
	declareAll(t, r, ModelDecl{Name: "A", Fields: []FieldDecl{{
		Name:         "a",
		Transforms:   StringOrArray{"first", "second"},
		Transformers: []mapper.Transformer{trace("third")},
	}}})

	m := r.MustBuild("A")

	_, err := m.Deserialize(mapper.Record{"a": 1}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, []string{"from:first", "from:second", "from:third"}, calls)

	calls = nil

	_, err = m.Serialize(mapper.Record{"a": 1}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, []string{"to:third", "to:second", "to:first"}, calls)
}

func TestRegistry_TransformErrorPropagates(t *testing.T) {
	boom := errors.New("boom")

	r := NewRegistry()
	declareAll(t, r, ModelDecl{Name: "A", Fields: []FieldDecl{{
		Name: "a",
		Transformers: []mapper.Transformer{{
			FromDTO: func(any, mapper.Scope) (any, error) { return nil, boom },
		}},
	}}})

	entity, err := r.MustBuild("A").Deserialize(mapper.Record{"a": 1}, mapper.NoScope)
	assert.Same(t, boom, err)
	assert.Nil(t, entity)
}

func TestRegistry_Defaults(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r, ModelDecl{
		Name: "User",
		Defaults: Defaults{
			DTO:    mapper.Record{"kind": "user"},
			Entity: mapper.Record{"Active": true},
		},
		Fields: []FieldDecl{{Name: "id", To: "ID"}},
	})

	m := r.MustBuild("User")

	dto, err := m.Serialize(mapper.Record{"ID": 1}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"kind": "user", "id": 1}, dto)

	dto["kind"] = "changed"

	dto, err = m.Serialize(mapper.Record{"ID": 2}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, "user", dto["kind"])

	entity, err := m.Deserialize(mapper.Record{"id": 3}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"Active": true, "ID": 3}, entity)
}

func TestRegistry_DefaultsAreDeepCopies(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r, ModelDecl{
		Name: "Doc",
		Defaults: Defaults{
			DTO: mapper.Record{"meta": map[string]any{"tags": []any{"new"}}},
		},
		Fields: []FieldDecl{{Name: "id"}},
	})

	m := r.MustBuild("Doc")

	first, err := m.Serialize(mapper.Record{"id": 1}, mapper.NoScope)
	require.NoError(t, err)

	meta := first["meta"].(map[string]any)
	meta["tags"] = append(meta["tags"].([]any), "edited")
	meta["owner"] = "ada"

	second, err := m.Serialize(mapper.Record{"id": 2}, mapper.NoScope)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tags": []any{"new"}}, second["meta"])
}

func TestRegistry_BuildIsCached(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r, dtoB)

	first := r.MustBuild("DtoB")
	assert.Same(t, first, r.MustBuild("DtoB"))

	declareAll(t, r, dtoA)
	assert.NotSame(t, first, r.MustBuild("DtoB"))
}

func TestRegistry_ConcurrentBuild(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r, dtoA, dtoB)

	var wg sync.WaitGroup

	built := make([]*mapper.Mapper, 8)
	for i := range built {
		wg.Add(1)

		go func() {
			defer wg.Done()

			built[i], _ = r.Build("DtoA")
		}()
	}

	wg.Wait()

	for _, m := range built {
		assert.Same(t, built[0], m)
	}
}

func TestRegistry_DuplicateTarget(t *testing.T) {
	decl := ModelDecl{Name: "A", Fields: []FieldDecl{
		{Name: "first", To: "x"},
		{Name: "second", To: "x"},
	}}

	logger, hook := logtest.NewNullLogger()

	r := NewRegistry(WithLogger(logger))
	declareAll(t, r, decl)

	m, err := r.Build("A")
	require.NoError(t, err)

	key, ok := m.UnmapKey("x", mapper.NoScope)
	require.True(t, ok)
	assert.Equal(t, "second", key)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "duplicate_target", entry.Data["code"])
	assert.Equal(t, "A", entry.Data["model"])

	strict := NewRegistry(WithStrict(true))
	declareAll(t, strict, decl)

	_, err = strict.Build("A")
	assert.ErrorIs(t, err, ErrDuplicateTarget)
}

func TestRegistry_Check(t *testing.T) {
	r := NewRegistry()
	declareAll(t, r,
		ModelDecl{Name: "A", Fields: []FieldDecl{
			{Name: "b", Nested: &NestedRef{Model: "B"}},
			{Name: "c", Transforms: StringOrArray{"nope"}},
		}},
	)

	diags := r.Check("A")
	assert.ElementsMatch(t, []string{"nested_not_declared", "unknown_transform"}, codes(diags.Errors))

	diags = r.Check("Missing")
	assert.ErrorIs(t, diags.Error(), ErrNotDeclared)

	declareAll(t, r, ModelDecl{Name: "B"})
	diags = r.Check("A")
	assert.Equal(t, []string{"unknown_transform"}, codes(diags.Errors))
}
