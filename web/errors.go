package web

import (
	"fmt"

	"github.com/SaiNageswarS/go-mini-boot/bootErrors"
)

// MalformedRequestError reports input that could not be parsed as a request.
type MalformedRequestError struct {
	Reason string
	Err    error
}

func (e *MalformedRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed request: %s: %v", e.Reason, e.Err)
	}
	return "malformed request: " + e.Reason
}

func (e *MalformedRequestError) Unwrap() error { return e.Err }

func (e *MalformedRequestError) Is(target error) bool {
	return target == bootErrors.ErrRequest
}

func malformed(reason string, err error) error {
	return &MalformedRequestError{Reason: reason, Err: err}
}
