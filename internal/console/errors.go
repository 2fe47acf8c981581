package console

// UserError is shown to the user instead of ending the session. It covers
// invalid input and usage, not system failures.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}
