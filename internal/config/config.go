package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/robfig/cron/v3"

	"github.com/nao1215/rankwatch/internal/domain"
	"github.com/nao1215/rankwatch/internal/extract"
	"github.com/nao1215/rankwatch/internal/llm"
	"github.com/nao1215/rankwatch/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "rankwatch"

	// DefaultRequestDelay is the pause between two rank checks of a run.
	// Grounded search calls are rate limited per minute.
	DefaultRequestDelay = 2 * time.Second

	// DefaultRequestTimeout bounds a single call to the model. Grounded
	// answers regularly take tens of seconds.
	DefaultRequestTimeout = 2 * time.Minute

	// DefaultSchedule runs `rankwatch watch` every morning at 08:00.
	DefaultSchedule = "0 8 * * *"

	// DefaultMetricsAddr is where `rankwatch watch` serves /metrics.
	DefaultMetricsAddr = ":9090"
)

// Config holds all configuration options for rankwatch. It is built from
// defaults, the configuration file, the environment and CLI flags, in that
// order, and passed down explicitly.
type Config struct {
	// APIKey is the Gemini API key. It is never written to logs.
	APIKey string

	// Model is the Gemini model name.
	Model string

	// Temperature overrides the model's sampling temperature when set.
	Temperature *float32

	// RequestTimeout bounds a single call to the model.
	RequestTimeout time.Duration

	// SessionID selects the stored session. The project name when a
	// project is used, model.DefaultSessionID otherwise.
	SessionID string

	// Domain is the tracked site, e.g. "acme-restoration.com".
	Domain string

	// Location is the service area the searches are made from.
	Location string

	// Keywords are the tracked keywords.
	Keywords []string

	// RequestDelay is the pause between two checks. Zero disables it.
	RequestDelay time.Duration

	// HistoryLimit is the number of points kept per keyword.
	HistoryLimit int

	// PersistEachKeyword saves the session after every keyword.
	PersistEachKeyword bool

	// DisabledRepairs names JSON repairs that are not applied to model
	// answers, e.g. "string-newlines".
	DisabledRepairs []string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file given with --config. When
	// empty, .rankwatch is searched in the current and home directories.
	ConfigFilePath string

	// Projects holds the loaded configuration file.
	Projects *File

	// JSONReport and MarkdownReport select the report format. They are
	// mutually exclusive; plain text is the default.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile is the output file path. Stdout when empty.
	ReportFile string

	// DBDir is the directory of the SQLite database.
	DBDir string

	// Schedule is the cron expression used by `rankwatch watch`.
	Schedule string

	// MetricsAddr is the listen address of the metrics endpoint. Empty
	// disables it.
	MetricsAddr string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Model:          llm.DefaultModel,
		RequestTimeout: DefaultRequestTimeout,
		SessionID:      model.DefaultSessionID,
		RequestDelay:   DefaultRequestDelay,
		HistoryLimit:   model.MaxHistoryPoints,
		DBDir:          XDGDataDir(),
		Schedule:       DefaultSchedule,
		MetricsAddr:    DefaultMetricsAddr,
	}
}

// XDGDataDir returns the XDG data directory for rankwatch.
// On Linux: ~/.local/share/rankwatch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for rankwatch.
// On Linux: ~/.config/rankwatch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration needed to run rank checks and returns
// the first problem found.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if !domain.IsValidDomain(c.Domain) {
		if c.Domain == "" {
			return ErrNoDomain
		}
		return fmt.Errorf("%w: %q", ErrInvalidDomain, c.Domain)
	}
	if len(model.NormalizeKeywords(c.Keywords)) == 0 {
		return ErrNoKeywords
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.HistoryLimit <= 0 {
		return ErrInvalidHistoryLimit
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	for _, name := range c.DisabledRepairs {
		if !extract.IsRepair(name) {
			return fmt.Errorf("%w: %q", ErrUnknownRepair, name)
		}
	}
	return nil
}

// ValidateWatch checks the configuration of `rankwatch watch`: everything
// Validate checks plus the schedule.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := ParseSchedule(c.Schedule); err != nil {
		return err
	}
	return nil
}

// ParseSchedule parses a standard five-field cron expression or a
// descriptor such as "@daily" or "@every 6h".
func ParseSchedule(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, ErrInvalidSchedule
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	return schedule, nil
}
