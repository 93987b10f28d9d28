package api

import (
	"errors"
	"fmt"
)

// NetworkError is a failure with no usable envelope: the request never
// completed, the status was non-2xx without an error body, or the body could
// not be decoded.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP error! status: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is an envelope that carried an Error member.
type ServerError struct {
	Op      string
	Status  int
	Code    ResultCode
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.text())
}

func (e *ServerError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code.Description()
}

// Message picks the most specific user-facing text for err, or "" when err
// carries nothing better than a generic failure.
func Message(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.text()
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		if ne.Status != 0 {
			return fmt.Sprintf("HTTP error! status: %d", ne.Status)
		}
		if ne.Err != nil {
			return ne.Err.Error()
		}
	}
	return ""
}

// IsCode reports whether err is a ServerError with the given code.
func IsCode(err error, code ResultCode) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Code == code
}
