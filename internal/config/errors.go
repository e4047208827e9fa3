package config

import "errors"

// Configuration validation errors, returned by Config.Validate and
// Config.ValidateWatch.
var (
	// ErrMissingAPIKey is returned when no Gemini API key is configured.
	ErrMissingAPIKey = errors.New("missing API key: set GEMINI_API_KEY or RANKWATCH_GEMINI_API_KEY")

	// ErrNoDomain is returned when no domain is configured.
	ErrNoDomain = errors.New("no domain specified: use --domain or a project")

	// ErrInvalidDomain is returned when the domain is not a valid hostname.
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrNoKeywords is returned when there is nothing to check.
	ErrNoKeywords = errors.New("no keywords specified: pass them as arguments or list them in a project")

	// ErrInvalidRequestDelay is returned when the request delay is negative.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid request timeout: must be positive")

	// ErrInvalidHistoryLimit is returned when the history limit is not
	// positive.
	ErrInvalidHistoryLimit = errors.New("invalid history limit: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidSchedule is returned when the watch schedule is not a valid
	// cron expression.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrUnknownRepair is returned when a disabled repair has no such
	// name.
	ErrUnknownRepair = errors.New("unknown repair")

	// ErrUnknownProject is returned when --project names a project the
	// configuration file does not define.
	ErrUnknownProject = errors.New("unknown project")
)
