package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoSession is returned when an operation is called without a
	// session id.
	ErrNoSession = errors.New("session id is required")
)
