package lifecycle

import "fmt"

// ValidationError rejects malformed input before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PartialFailure reports that the primary effect of a multi-step operation
// succeeded while a secondary effect failed. The caller must treat the
// primary operation as successful and surface only the warning.
type PartialFailure struct {
	Warning string
	Cause   error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Warning, e.Cause)
}

func (e *PartialFailure) Unwrap() error { return e.Cause }
