package apiclient

import "errors"

// Validation and response-shape errors. Message casing matches what the UI
// surfaces verbatim in the chat view.
var (
	ErrEmptyQuestion = errors.New("Question is empty")
	ErrEmptyAnswer   = errors.New("No answer returned from server")
)

// RequestFailedError reports a non-2xx response from a remote endpoint
type RequestFailedError struct {
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	return e.Message
}
