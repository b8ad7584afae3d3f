package errorvalues

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("no user found, create a PIN first")
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidPin   = errors.New("PIN must be exactly 6 digits")
	ErrInvalidToken = errors.New("invalid token")
)

// PinMismatchError is returned on a wrong PIN while the credential is not
// locked yet.
type PinMismatchError struct {
	AttemptsLeft int
}

func (e *PinMismatchError) Error() string {
	return fmt.Sprintf("wrong PIN, %d attempt(s) left", e.AttemptsLeft)
}

// LockedError is returned while the lockout window is active. RetryAfter is
// the ceiling of the remaining seconds.
type LockedError struct {
	RetryAfter int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("access locked, try again in %d seconds", e.RetryAfter)
}
