// Package log provides slog loggers that mask credentials.
//
// rankwatch handles a Gemini API key on every run, and the genai client
// occasionally includes request URLs in its errors. SecureHandler masks
// attributes whose key names a credential (api_key, token, authorization)
// and any value that looks like a Google API key, OAuth token or JWT,
// including keys embedded in longer strings and in error values.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Warn("rank check failed",
//	    "keyword", "flood cleanup", // visible
//	    "api_key", cfg.APIKey,      // ***REDACTED***
//	)
package log
