// Package mapping declares mappable models and builds mapper.Mapper tables
// from those declarations.
//
// A model is a named DTO shape. It can be declared three ways:
//
//   - programmatically, with Registry.Declare and a ModelDecl
//   - from struct tags, with Registry.DeclareStruct
//   - from a YAML file, with LoadFile and Registry.DeclareFile
//
// # Struct tags
//
// Only exported fields carrying a `map` tag are included. The DTO key is the
// `json` name of the field, or the Go field name passed through the registry
// naming strategy. The entity key defaults to the Go field name.
//
//	type UserDTO struct {
//	    ID    string   `json:"id" map:""`
//	    Email string   `json:"email" map:"to:EmailAddress; scope:admin,self; readonly"`
//	    Name  string   `json:"name" map:"transform:trim,lower"`
//	    Org   *OrgDTO  `json:"org" map:"nested"`
//	    Tags  []TagDTO `json:"tags" map:"nested:TagDTO; many"`
//	}
//
// Tag keys (semicolon separated):
//   - name:<key>          DTO key override
//   - to:<key>            entity key
//   - scope:<a>,<b>       scopes allowed to see the field
//   - access:<mode>       all | read | write | none
//   - readonly, writeonly shorthands for access:read and access:write
//   - transform:<a>,<b>   named transforms, applied in order when decoding
//   - nested[:<model>]    delegate to another declared model
//   - many                the nested value is a sequence
//
// # YAML
//
//	version: "1"
//	models:
//	  - name: UserDTO
//	    defaults:
//	      dto: {kind: user}
//	    fields:
//	      - name: email
//	        to: EmailAddress
//	        scopes: [admin, self]
//	        access: read
//	        transforms: [trim, lower]
//	      - name: org
//	        nested: OrgDTO
//	      - name: tags
//	        nested: {model: TagDTO, many: true}
//
// # Transforms
//
// Names in `transform:` and `transforms:` resolve against Builtins, merged with
// any registry passed to WithTransforms. Typed Go functions become
// transformers with Func and Pair:
//
//	custom := mapping.NewTransformRegistry()
//	custom.Add("cents", mapping.Pair(formatCents, parseCents))
//
// # Building
//
// Registry.Build resolves nested models by name when it runs, so two models
// may refer to each other. Expansion stops one level down: a nested field of
// a nested model is copied unchanged. Declaration mistakes (an unknown model,
// a field with both a nested model and transforms, an unknown transform name,
// a duplicate DTO key) fail the build; no partial mapper is returned.
package mapping
