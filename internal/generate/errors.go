package generate

import "fmt"

// InputError represents an invalid generation request, rejected before any
// model call so no partial state is ever created.
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid generation input: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid generation input: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// GenerationError represents a hard provider failure during generation.
// Unlike extraction failures there is no fallback artifact: it surfaces to
// the caller as an upfront error, or as the terminal error chunk when
// output has already streamed.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
