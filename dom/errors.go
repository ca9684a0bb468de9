package dom

import "fmt"

// DOMError represents a DOM exception with a name and message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// IsError reports whether err is a *DOMError with the given name.
func IsError(err error, name string) bool {
	de, ok := err.(*DOMError)
	return ok && de.Name == name
}

// Common DOM error constructors

// ErrHierarchyRequest creates a HierarchyRequestError.
func ErrHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: "HierarchyRequestError", Message: message}
}

// ErrNotFound creates a NotFoundError.
func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: "NotFoundError", Message: message}
}

// ErrInvalidCharacter creates an InvalidCharacterError.
func ErrInvalidCharacter(message string) *DOMError {
	return &DOMError{Name: "InvalidCharacterError", Message: message}
}

// ErrNotSupported creates a NotSupportedError.
func ErrNotSupported(message string) *DOMError {
	return &DOMError{Name: "NotSupportedError", Message: message}
}

// ErrSyntax creates a SyntaxError.
func ErrSyntax(message string) *DOMError {
	return &DOMError{Name: "SyntaxError", Message: message}
}

// ErrInvalidFilter creates an InvalidFilterError. It is returned when a
// traversal filter specification is neither a predicate function, a selector
// string, nor a list of tag names.
func ErrInvalidFilter(message string) *DOMError {
	return &DOMError{Name: "InvalidFilterError", Message: message}
}

// ErrInvalidPattern creates an InvalidPatternError. It is returned when a
// split pattern is neither a literal string nor a pattern object.
func ErrInvalidPattern(message string) *DOMError {
	return &DOMError{Name: "InvalidPatternError", Message: message}
}

// ErrUnsupportedOperation creates an UnsupportedOperationError, reserved for
// pattern/replacer combinations the engine declines to handle.
func ErrUnsupportedOperation(message string) *DOMError {
	return &DOMError{Name: "UnsupportedOperationError", Message: message}
}
