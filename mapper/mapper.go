package mapper

import "slices"

// Mapper converts records in both directions according to a fixed field table.
type Mapper struct {
	fields    []Field
	newDTO    func() Record
	newEntity func() Record

	// forward indexes fields by DTO key, reverse by entity key.
	// On collisions the last field in table order wins.
	forward map[string]*Field
	reverse map[string]*Field
}

// New builds a Mapper from cfg. The field table is copied, so later changes
// to cfg do not affect the Mapper.
func New(cfg Config) *Mapper {
	m := &Mapper{
		fields:    make([]Field, len(cfg.Fields)),
		newDTO:    cfg.NewDTO,
		newEntity: cfg.NewEntity,
		forward:   make(map[string]*Field, len(cfg.Fields)),
		reverse:   make(map[string]*Field, len(cfg.Fields)),
	}

	for i, f := range cfg.Fields {
		f.Scopes = slices.Clip(slices.Clone(f.Scopes))
		m.fields[i] = f
	}

	for i := range m.fields {
		f := &m.fields[i]
		m.forward[f.From] = f
		m.reverse[f.To] = f
	}

	return m
}

// Fields returns a copy of the field table in declaration order.
func (m *Mapper) Fields() []Field {
	return slices.Clone(m.fields)
}

// Lookup returns the field registered for a DTO key.
func (m *Mapper) Lookup(key string) (Field, bool) {
	f, ok := m.forward[key]
	if !ok {
		return Field{}, false
	}

	return *f, true
}

// ReverseLookup returns the field registered for an entity key.
func (m *Mapper) ReverseLookup(key string) (Field, bool) {
	f, ok := m.reverse[key]
	if !ok {
		return Field{}, false
	}

	return *f, true
}

// Serialize converts an entity into a DTO. Fields hidden from scope are left out.
// A nil entity yields a nil DTO. If a transformer fails, its error is returned
// as is and the partial DTO is dropped.
func (m *Mapper) Serialize(entity Record, scope Scope) (Record, error) {
	if entity == nil {
		return nil, nil
	}

	dto := allocate(m.newDTO)

	for i := range m.fields {
		f := &m.fields[i]
		if !CanSerialize(f, scope) {
			continue
		}

		v, err := serializeValue(f, entity[f.To], scope)
		if err != nil {
			return nil, err
		}

		dto[f.From] = v
	}

	return dto, nil
}

// Deserialize converts a DTO into an entity. It mirrors Serialize.
func (m *Mapper) Deserialize(dto Record, scope Scope) (Record, error) {
	if dto == nil {
		return nil, nil
	}

	entity := allocate(m.newEntity)

	for i := range m.fields {
		f := &m.fields[i]
		if !CanDeserialize(f, scope) {
			continue
		}

		v, err := deserializeValue(f, dto[f.From], scope)
		if err != nil {
			return nil, err
		}

		entity[f.To] = v
	}

	return entity, nil
}

// DeserializeField converts the value of a single DTO key.
// ok is false when the key is unknown or not deserializable for scope.
func (m *Mapper) DeserializeField(key string, value any, scope Scope) (any, bool, error) {
	f := m.forward[key]
	if !CanDeserialize(f, scope) {
		return nil, false, nil
	}

	v, err := deserializeValue(f, value, scope)
	if err != nil {
		return nil, false, err
	}

	return v, true, nil
}

// SerializeField converts the value of a single entity key.
// ok is false when the key is unknown or not serializable for scope.
func (m *Mapper) SerializeField(key string, value any, scope Scope) (any, bool, error) {
	f := m.reverse[key]
	if !CanSerialize(f, scope) {
		return nil, false, nil
	}

	v, err := serializeValue(f, value, scope)
	if err != nil {
		return nil, false, err
	}

	return v, true, nil
}

// DeserializeAndMapField converts a single DTO value and also returns the
// entity key it belongs to.
func (m *Mapper) DeserializeAndMapField(key string, value any, scope Scope) (Resolved, bool, error) {
	f := m.forward[key]
	if !CanDeserialize(f, scope) {
		return Resolved{}, false, nil
	}

	v, err := deserializeValue(f, value, scope)
	if err != nil {
		return Resolved{}, false, err
	}

	return Resolved{Key: f.To, Value: v}, true, nil
}

// SerializeAndUnmapField converts a single entity value and also returns the
// DTO key it belongs to.
func (m *Mapper) SerializeAndUnmapField(key string, value any, scope Scope) (Resolved, bool, error) {
	f := m.reverse[key]
	if !CanSerialize(f, scope) {
		return Resolved{}, false, nil
	}

	v, err := serializeValue(f, value, scope)
	if err != nil {
		return Resolved{}, false, err
	}

	return Resolved{Key: f.From, Value: v}, true, nil
}

// MapKey translates a DTO key into its entity key.
func (m *Mapper) MapKey(key string, scope Scope) (string, bool) {
	f := m.forward[key]
	if !CanDeserialize(f, scope) {
		return "", false
	}

	return f.To, true
}

// UnmapKey translates an entity key into its DTO key.
func (m *Mapper) UnmapKey(key string, scope Scope) (string, bool) {
	f := m.reverse[key]
	if !CanSerialize(f, scope) {
		return "", false
	}

	return f.From, true
}

func allocate(factory func() Record) Record {
	if factory == nil {
		return Record{}
	}

	if r := factory(); r != nil {
		return r
	}

	return Record{}
}

func serializeValue(f *Field, value any, scope Scope) (any, error) {
	if f.Transformer == nil || f.Transformer.ToDTO == nil {
		return value, nil
	}

	return f.Transformer.ToDTO(value, scope)
}

func deserializeValue(f *Field, value any, scope Scope) (any, error) {
	if f.Transformer == nil || f.Transformer.FromDTO == nil {
		return value, nil
	}

	return f.Transformer.FromDTO(value, scope)
}
