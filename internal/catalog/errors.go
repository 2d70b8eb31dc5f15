package catalog

import "errors"

// Error codes classified by the catalog core. Translating a code into an
// HTTP status is the transport layer's concern.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeDuplicateName     = "DUPLICATE_NAME"
	CodeDuplicateSKU      = "DUPLICATE_SKU"
	CodeNotFound          = "NOT_FOUND"
	CodeParentInactive    = "PARENT_INACTIVE"
	CodeHierarchyMismatch = "HIERARCHY_MISMATCH"
	CodeConflict          = "CONFLICT"
	CodeCascadeIncomplete = "CASCADE_INCOMPLETE"
	CodeReorderIncomplete = "REORDER_INCOMPLETE"
	CodeInternal          = "INTERNAL_ERROR"
)

// Error is a classified catalog error. Expected outcomes (not found,
// duplicate name, blocked delete) are returned as values, never panics.
type Error struct {
	Code    string
	Message string
	Field   string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a classified error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// FieldError creates a validation error bound to a specific field.
func FieldError(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// CodeOf returns the classification code of err, or CodeInternal for
// unclassified errors (unexpected persistence faults and the like).
func CodeOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err is a not-found classification.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsConflict reports whether err is a dependents-exist conflict.
func IsConflict(err error) bool {
	return CodeOf(err) == CodeConflict
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}
