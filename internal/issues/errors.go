package issues

import "fmt"

// ValidationError rejects a request before any mutation is applied. The
// handler maps it to HTTP 400 with a field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErrorf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PermissionError rejects an action gated behind a feature flag or role the
// caller does not have. The handler maps it to HTTP 403.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}
