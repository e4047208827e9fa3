package database

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when CreateIfNotExists is off
	// and there is no database file.
	ErrDatabaseNotFound = errors.New("database not found (use CreateIfNotExists option to create)")

	// ErrInvalidSession is returned when saving a nil session or one without ID.
	ErrInvalidSession = errors.New("invalid session: ID is required")

	// ErrInvalidRun is returned when recording a run without ID or session.
	ErrInvalidRun = errors.New("invalid run: ID and session ID are required")
)
