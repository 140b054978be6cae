package mapping

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/mohae/deepcopy"
	"github.com/sirupsen/logrus"

	"field-mapper/internal/diagnostic"
	"field-mapper/mapper"
)

// Registry holds model declarations and builds mappers from them.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[string]ModelDecl
	built  map[string]*mapper.Mapper

	transforms *TransformRegistry
	naming     Naming
	strict     bool
	log        logrus.FieldLogger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for build events and warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithTransforms adds named transforms on top of the builtins.
func WithTransforms(transforms *TransformRegistry) Option {
	return func(r *Registry) {
		r.transforms.Merge(transforms)
	}
}

// WithNaming sets how DeclareStruct derives DTO keys for fields without a
// json name.
func WithNaming(naming Naming) Option {
	return func(r *Registry) {
		r.naming = naming
	}
}

// WithStrict turns duplicate entity keys into build errors.
func WithStrict(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Registry{
		models:     make(map[string]ModelDecl),
		built:      make(map[string]*mapper.Mapper),
		transforms: Builtins(),
		naming:     NamingNone,
		log:        discard,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Transforms returns the transform registry used to resolve names.
func (r *Registry) Transforms() *TransformRegistry {
	return r.transforms
}

// Declare registers decl as a mappable model. Declaring the same name twice
// is an error.
func (r *Registry) Declare(decl ModelDecl) error {
	if decl.Name == "" {
		return fmt.Errorf("failed to declare model: %w", ErrEmptyName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[decl.Name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyDeclared, decl.Name)
	}

	r.models[decl.Name] = decl.Clone()
	clear(r.built)

	r.log.WithField("model", decl.Name).WithField("fields", len(decl.Fields)).Debug("model declared")

	return nil
}

// DeclareFile registers every model of mf.
func (r *Registry) DeclareFile(mf *MappingFile) error {
	var errs []error

	for i := range mf.Models {
		if err := r.Declare(mf.Models[i]); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Has returns true if name is declared.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.models[name]

	return ok
}

// Models returns the declared model names, sorted.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.models))
}

// Declaration returns a copy of the declaration registered under name.
func (r *Registry) Declaration(name string) (ModelDecl, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decl, ok := r.models[name]
	if !ok {
		return ModelDecl{}, false
	}

	return decl.Clone(), true
}

// Build returns the mapper of a declared model. Declaration errors are
// reported together; see the package documentation for the list.
// Built mappers are cached until the next declaration.
func (r *Registry) Build(name string) (*mapper.Mapper, error) {
	r.mu.RLock()
	m, ok := r.built[name]
	r.mu.RUnlock()

	if ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.built[name]; ok {
		return m, nil
	}

	m, err := r.build(name, false)
	if err != nil {
		return nil, err
	}

	r.built[name] = m

	return m, nil
}

// MustBuild is like Build but panics on error.
func (r *Registry) MustBuild(name string) *mapper.Mapper {
	m, err := r.Build(name)
	if err != nil {
		panic(err)
	}

	return m
}

// Check validates the declaration of name, including nested references,
// without building it.
func (r *Registry) Check(name string) *diagnostic.Diagnostics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := &diagnostic.Diagnostics{}

	decl, ok := r.models[name]
	if !ok {
		res.AddError(ErrNotDeclared, "not_declared", "model is not declared", name, "")
		return res
	}

	r.checker(true).model(res, &decl)

	return res
}

func (r *Registry) checker(nested bool) checker {
	return checker{
		transforms: r.transforms,
		declared: func(name string) bool {
			_, ok := r.models[name]
			return ok
		},
		strict:      r.strict,
		checkNested: nested,
	}
}

// build must be called with r.mu held. Nested models are built with
// ignoreNested set, so their own nested fields are copied unchanged.
func (r *Registry) build(name string, ignoreNested bool) (*mapper.Mapper, error) {
	decl, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDeclared, name)
	}

	log := r.log.WithField("model", name)

	res := &diagnostic.Diagnostics{}
	r.checker(!ignoreNested).model(res, &decl)

	for _, w := range res.Warnings {
		log.WithField("code", w.Code).Warn(w.String())
	}

	if err := res.Error(); err != nil {
		return nil, fmt.Errorf("failed to build model %s: %w", name, err)
	}

	fields := make([]mapper.Field, 0, len(decl.Fields))

	for i := range decl.Fields {
		fd := &decl.Fields[i]

		f := mapper.Field{
			From:               fd.Name,
			To:                 fd.Target(),
			Scopes:             toScopes(fd.Scopes),
			DisableSerialize:   fd.Access.DisableSerialize(),
			DisableDeserialize: fd.Access.DisableDeserialize(),
		}

		switch {
		case fd.Nested != nil && ignoreNested:
			log.WithField("field", fd.Name).Debug("nested expansion suppressed")

		case fd.Nested != nil:
			nested, err := r.build(fd.Nested.Model, true)
			if err != nil {
				return nil, fmt.Errorf("failed to build nested field %s.%s: %w", name, fd.Name, err)
			}

			f.Transformer = mapper.Nested(nested, fd.Nested.Many)

		case fd.HasTransforms():
			ts, err := r.transforms.Resolve(fd.Transforms)
			if err != nil {
				return nil, fmt.Errorf("failed to build field %s.%s: %w", name, fd.Name, err)
			}

			combined := mapper.CombineTransformers(append(ts, fd.Transformers...)...)
			f.Transformer = &combined
		}

		fields = append(fields, f)
	}

	log.WithField("fields", len(fields)).Debug("mapper built")

	return mapper.New(mapper.Config{
		Fields:    fields,
		NewDTO:    factory(decl.Defaults.DTO),
		NewEntity: factory(decl.Defaults.Entity),
	}), nil
}

func toScopes(names []string) []mapper.Scope {
	if len(names) == 0 {
		return nil
	}

	scopes := make([]mapper.Scope, len(names))
	for i, n := range names {
		scopes[i] = mapper.Scope(n)
	}

	return scopes
}

func factory(defaults mapper.Record) func() mapper.Record {
	if len(defaults) == 0 {
		return nil
	}

	return func() mapper.Record {
		return deepcopy.Copy(defaults).(mapper.Record)
	}
}
