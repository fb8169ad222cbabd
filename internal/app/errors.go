package service

import "errors"

var (
	// ErrSubmitInFlight is returned when a session submits while its previous
	// submission has not finished.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrSessionNotFound is returned for an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoStore is returned by Start when demo mode is off and no store was
	// configured.
	ErrNoStore = errors.New("no feedback store configured")
)
