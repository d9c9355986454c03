package identity

import (
	"errors"
	"fmt"
)

// Classification sentinels. Clients wrap these in *Error together with
// the provider-supplied code so callers can branch on the class and
// still surface the provider's own code in envelopes.
var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrEmailExists        = errors.New("identity: email already registered")
	ErrWeakPassword       = errors.New("identity: password too weak")
	ErrUnsupported        = errors.New("identity: operation not supported by provider")
)

// Error carries the provider-supplied error code alongside its
// classification.
type Error struct {
	Code string // provider error code, e.g. EMAIL_EXISTS
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Code)
	}
	return "identity: provider error " + e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the provider error code attached to err, or "" when
// err carries none.
func CodeOf(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ""
}
