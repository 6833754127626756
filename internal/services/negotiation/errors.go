package negotiation

import "errors"

var (
	// ErrCodeExhausted is returned when every attempt to allocate a unique
	// negotiation code collided. The caller should ask the user to retry.
	ErrCodeExhausted = errors.New("could not allocate a unique negotiation code")

	// ErrCommitInFlight guards against duplicate submissions from repeated
	// user action within one session.
	ErrCommitInFlight = errors.New("a commit is already in progress for this session")
)

// ValidationError is a user-correctable problem. It blocks a step
// transition and is re-evaluated on the next input change; it is never
// fatal for the session.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is user-correctable.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
