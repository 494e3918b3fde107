package types

import (
	"encoding/json"
	"errors"
)

// Error Instead of utilizing bare strings to describe client failures, rich errors are returned
// using this object. Both the code and message fields can be individually used to correctly
// identify an error. Implementations MUST use unique values for both fields.
type Error struct {
	// Code identifies the class of failure (configuration, validation, signing, transport).
	Code int32 `json:"code"`
	// Message is a stable description of the class. The message MUST NOT change for a given code.
	// Any contextual information belongs in the details field.
	Message string `json:"message"`
	// An error is retriable if the same request may succeed if submitted again.
	Retriable bool `json:"retriable"`
	// Details carries information specific to the failing call (offending field, underlying
	// cause, etc).
	Details map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	bytes, _ := json.MarshalIndent(e, "", "  ")
	return string(bytes)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any error of the same class, so that callers can write
// errors.Is(err, types.ErrValidation) against a wrapped instance.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	// ErrConfiguration is returned for a missing or malformed credential or client setup.
	ErrConfiguration = &Error{
		Code:    1, //nolint
		Message: "Invalid configuration",
	}
	// ErrValidation is returned when an operation parameter is missing or has the wrong shape.
	ErrValidation = &Error{
		Code:    2, //nolint
		Message: "Invalid parameters",
	}
	// ErrSigning is returned when the signature primitive rejects the key or fails.
	ErrSigning = &Error{
		Code:    3, //nolint
		Message: "Signing failed",
	}
	// ErrTransport is published on the error event when the channel fails.
	ErrTransport = &Error{
		Code:      4, //nolint
		Message:   "Transport failure",
		Retriable: true,
	}
)

// WrapErr adds details to the types.Error provided. We use a function
// to do this so that we don't accidentially overrwrite the standard
// errors.
func WrapErr(rErr *Error, err error) *Error {
	newErr := &Error{
		Code:      rErr.Code,
		Message:   rErr.Message,
		Retriable: rErr.Retriable,
		cause:     err,
	}
	if err != nil {
		newErr.Details = map[string]interface{}{
			"context": err.Error(),
		}
	}

	return newErr
}

// WrapFieldErr is WrapErr with the offending parameter recorded in the details.
func WrapFieldErr(rErr *Error, field string, err error) *Error {
	newErr := WrapErr(rErr, err)
	if newErr.Details == nil {
		newErr.Details = map[string]interface{}{}
	}
	newErr.Details["field"] = field
	return newErr
}
