package hec

import "fmt"

// TransportError reports that the collection endpoint could not be
// reached, or that it returned a response the client could not read.
// Retries have already been exhausted when this is returned.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("hec transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports that the collection endpoint rejected the batch,
// either at the HTTP layer or with a non-zero code in its status body.
type StatusError struct {
	HTTPStatus int
	Code       int
	Text       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hec rejected batch: http %d, code %d: %s", e.HTTPStatus, e.Code, e.Text)
}
