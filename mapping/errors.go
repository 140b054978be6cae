package mapping

import "errors"

var (
	ErrNotDeclared         = errors.New("model is not declared as mappable")
	ErrAlreadyDeclared     = errors.New("model is already declared")
	ErrNestedWithTransform = errors.New("a field cannot be both nested and transformed")
	ErrUnknownTransform    = errors.New("unknown transform")
	ErrDuplicateField      = errors.New("duplicate field")
	ErrDuplicateTarget     = errors.New("duplicate target field")
	ErrInvalidAccess       = errors.New("invalid access mode")
	ErrInvalidTag          = errors.New("invalid map tag")
	ErrNotAStruct          = errors.New("value must be a struct or pointer to struct")
	ErrUnexportedField     = errors.New("struct has unexported fields")
	ErrEmptyName           = errors.New("empty name")
)
