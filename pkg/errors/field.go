package errors

import (
	"errors"
	"fmt"
)

// FieldError reports that a single column of an input line does not respect
// its dialect's grammar. The line number, field name, and raw content are
// preserved verbatim so the operator can locate and fix the source line.
//
// Parsing of a tree aborts on the first FieldError; there is no partial-tree
// recovery.
type FieldError struct {
	Line    int    // 1-based line number in the source input
	Field   string // column name (e.g. "ID", "FEATS", "HEAD")
	Dialect string // dialect whose grammar was violated (e.g. "CoNLL-U")
	Content string // raw field content, unmodified
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("at line %d, the %s field does not respect %s specifications: %q",
		e.Line, e.Field, e.Dialect, e.Content)
}

// NewFieldError creates a FieldError for the given line, field, and content.
func NewFieldError(line int, field, dialect, content string) *FieldError {
	return &FieldError{Line: line, Field: field, Dialect: dialect, Content: content}
}

// AsFieldError extracts a *FieldError from err's chain, or nil.
func AsFieldError(err error) *FieldError {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
