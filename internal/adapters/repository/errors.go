package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrRead wraps any failure listing records.
	ErrRead = errors.New("feedback store read failed")
	// ErrWrite wraps any failure inserting a record.
	ErrWrite = errors.New("feedback store write failed")
	// ErrUnsupportedURL is returned by Open for an unknown scheme.
	ErrUnsupportedURL = errors.New("unsupported store url")
)
