package relay

// ValidationError reports a request whose shape the relay cannot accept.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Error reports a failed call to the language model. Message carries the
// original failure detail so it can be shown to the caller as-is.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
