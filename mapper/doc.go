// Package mapper converts records between a wire shape (DTO) and an internal
// shape (entity) using a declarative per-field table.
//
// A Mapper is built once from a Config and is read-only afterwards, so it can
// be shared between goroutines without locking.
//
// # Field rules
//
// Every Field names a DTO key (From), an entity key (To) and optionally:
//   - Scopes: the tokens allowed to see the field (nil means everyone)
//   - DisableSerialize / DisableDeserialize: per-direction switches
//   - Transformer: a pair of functions applied before the value is written
//
// # Operations
//
// Whole-object operations iterate the table, never the input keys, so fields
// that are not declared never reach the output:
//
//	dto, err := m.Serialize(entity, "admin")
//	entity, err := m.Deserialize(dto, mapper.NoScope)
//
// Single-field operations translate one key or value at a time and report
// hidden or unknown fields through a false ok value:
//
//	key, ok := m.MapKey("email", mapper.NoScope)
//	v, ok, err := m.SerializeField("EmailAddress", "a@b.c", "admin")
//
// # Composition
//
// CombineTransformers stacks transformers like encoding layers: FromDTO runs
// them in declaration order and ToDTO in reverse. Nested wraps another Mapper
// as a Transformer for sub-records and slices of sub-records.
package mapper
