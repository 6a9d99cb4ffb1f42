package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSavedCredentials is returned when reauthentication is requested
	// before any successful login has stored a credential pair.
	ErrNoSavedCredentials = errors.New("no saved credentials to reauthenticate with")

	// ErrAuthenticationExhausted is returned when the login attempt budget
	// runs out without the server accepting a captcha/credential pair.
	ErrAuthenticationExhausted = errors.New("authentication attempts exhausted")

	// ErrCaptchaExhausted is returned when no well-formed captcha answer was
	// produced within the attempt budget.
	ErrCaptchaExhausted = errors.New("captcha attempts exhausted")
)

// RemoteError is an explicit rejection reported by the booking backend via
// the success flag of its response envelope. It is an expected operational
// outcome (wrong captcha guess, stale slot, closed booking window), not a
// transport fault.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("rejected by server: %s", e.Message)
}

// ProtocolError reports a response the client could not interpret: a body
// that is not the expected envelope, or a record missing required fields.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed server response: %s", e.Reason)
}
