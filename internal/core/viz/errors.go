package viz

import "errors"

// ValidationError reports a dataset that does not fit the chart. Its message
// is shown to the user as is.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func reject(kind Kind, msg string, out Display) error {
	out.Error(msg)
	return &ValidationError{Kind: kind, Message: msg}
}
