package session

import "errors"

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// session's current state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrInvalidDetail is returned for an unknown detail field or an
	// out-of-range lodging preference.
	ErrInvalidDetail = errors.New("invalid detail")
)
