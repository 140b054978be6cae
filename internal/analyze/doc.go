// Package analyze loads Go packages and extracts mapping declarations from
// the `map` struct tags found in their source.
//
// It uses golang.org/x/tools/go/packages with go/types to build an in-memory
// model of named types and their fields, then hands the tagged structs to
// the mapping package.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/map/external)
//   - FieldInfo: describes field name, type, tags, and embedding
package analyze
