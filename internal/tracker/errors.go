package tracker

import "errors"

var (
	// ErrRunInProgress is returned when UpdateRankings is called while
	// another run of the same Tracker is still going.
	ErrRunInProgress = errors.New("a rank check is already running")

	// ErrRunCancelled wraps the context error of a run stopped before every
	// keyword was checked.
	ErrRunCancelled = errors.New("rank check cancelled")

	// ErrNoKeywords is returned when the request holds no usable keyword.
	ErrNoKeywords = errors.New("no keywords to check")

	// ErrInvalidDomain is returned when the request domain is not a valid
	// hostname.
	ErrInvalidDomain = errors.New("invalid domain")
)
