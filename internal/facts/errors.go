package facts

import "fmt"

// APICallError represents a provider failure during extraction. It is
// always absorbed by the caller: extraction failure degrades to the empty
// inventory, it never aborts a request.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents unparseable extraction output. Like APICallError
// it is informational: the sanitizer has already produced the canonical
// empty inventory by the time this surfaces.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
