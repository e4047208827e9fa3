package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/rankwatch/internal/config"
	"github.com/nao1215/rankwatch/internal/database"
	"github.com/nao1215/rankwatch/internal/extract"
	"github.com/nao1215/rankwatch/internal/llm"
	seclog "github.com/nao1215/rankwatch/internal/log"
	"github.com/nao1215/rankwatch/internal/rankcheck"
	"github.com/nao1215/rankwatch/internal/report"
)

// errNoHistory is returned by the read-only commands when nothing has been
// checked yet.
var errNoHistory = errors.New("no rank history yet (run 'rankwatch check' first)")

// addTargetFlags adds the flags that select what is checked.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("domain", "d", "",
		"Domain of the tracked site (e.g., acme-restoration.com)")
	cmd.Flags().StringP("location", "l", "",
		"Service area the searches are made from (e.g., \"Austin, TX\")")
	addProjectFlag(cmd)
	cmd.Flags().Duration("delay", config.DefaultRequestDelay,
		"Pause between two keyword checks")
	cmd.Flags().String("model", llm.DefaultModel,
		"Gemini model name")
	cmd.Flags().Bool("save-each", false,
		"Save the history after every keyword so an interrupted run keeps its progress")
	addNoRepairFlag(cmd)
}

// addNoRepairFlag adds --no-repair, which disables named JSON repairs.
func addNoRepairFlag(cmd *cobra.Command) {
	cmd.Flags().StringSlice("no-repair", nil,
		"JSON repairs to skip when reading model answers (comments, trailing-commas, string-newlines)")
}

// addProjectFlag adds --project, which selects a project of the
// configuration file and the session it is stored in.
func addProjectFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("project", "p", "",
		"Project of the configuration file to use (also the history session)")
}

// addReportFlags adds the report format and destination flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getGlobalString retrieves a global string flag from the command or its
// parent.
func getGlobalString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return value
}

// flagChanged reports whether cmd has the named flag and it was set on the
// command line.
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// getProjectFlag returns the --project value, or "" when cmd has no such
// flag.
func getProjectFlag(cmd *cobra.Command) string {
	if cmd.Flags().Lookup("project") == nil {
		return ""
	}
	project, err := cmd.Flags().GetString("project")
	if err != nil {
		return ""
	}
	return project
}

// loadProjects loads the configuration file. An explicitly given file must
// exist; when none is given and none is found, the result is empty.
func loadProjects(configPath string) (*config.File, error) {
	path := config.FindConfigFile(configPath)
	switch {
	case path != "":
		cf, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		return cf, nil
	case configPath != "":
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	default:
		return &config.File{Projects: make(map[string]config.ProjectConfig)}, nil
	}
}

// buildConfig creates a Config for the project selected with --project.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	projects, err := loadProjects(getGlobalString(cmd, "config"))
	if err != nil {
		return nil, err
	}
	return buildProjectConfig(cmd, args, projects, getProjectFlag(cmd))
}

// buildProjectConfig layers the configuration of one project: defaults,
// then the configuration file, then the environment, then the flags that
// were set on the command line. An empty project uses the file's defaults
// section and the default session.
func buildProjectConfig(cmd *cobra.Command, args []string, projects *config.File, project string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.ConfigFilePath = getGlobalString(cmd, "config")
	cfg.Projects = projects
	cfg.Verbose = getVerboseFlag(cmd)

	if project != "" {
		p, err := projects.Project(project)
		if err != nil {
			return nil, err
		}
		cfg.ApplyProject(p)
		cfg.SessionID = project
	} else {
		cfg.ApplyProject(projects.Defaults)
	}

	env, err := config.LoadEnv(config.DefaultEnvFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(env)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Keywords = append([]string(nil), args...)
	}
	return cfg, nil
}

// applyFlags copies the flags set on the command line into cfg. Flags left
// at their default never override the file or the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if dir := getGlobalString(cmd, "db-dir"); dir != "" {
		cfg.DBDir = dir
	}
	if flagChanged(cmd, "domain") {
		if cfg.Domain, err = flags.GetString("domain"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "location") {
		if cfg.Location, err = flags.GetString("location"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "delay") {
		if cfg.RequestDelay, err = flags.GetDuration("delay"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "model") {
		if cfg.Model, err = flags.GetString("model"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "save-each") {
		if cfg.PersistEachKeyword, err = flags.GetBool("save-each"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "no-repair") {
		if cfg.DisabledRepairs, err = flags.GetStringSlice("no-repair"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "json") {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "markdown") {
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "output") {
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "schedule") {
		if cfg.Schedule, err = flags.GetString("schedule"); err != nil {
			return err
		}
	}
	if flagChanged(cmd, "metrics-addr") {
		if cfg.MetricsAddr, err = flags.GetString("metrics-addr"); err != nil {
			return err
		}
	}
	return nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Secrets such as the API key are redacted before anything is written.
func setupLogger(verbose bool) *slog.Logger {
	return seclog.NewSecureLogger(os.Stderr, verbose)
}

// withSignalCancel returns a context that is cancelled on SIGINT or
// SIGTERM. The returned stop function releases the signal handler.
func withSignalCancel(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// openStore opens the rank history database. Read-only commands pass
// create=false so that they never leave an empty database behind.
func openStore(cfg *config.Config, create bool) (*database.RankDB, error) {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = create

	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			return nil, errNoHistory
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newChecker wires the Gemini service, the circuit breaker and the rank
// check adapter.
func newChecker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*rankcheck.Checker, error) {
	svc, err := llm.NewGeminiService(ctx, llm.GeminiConfig{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.RequestTimeout,
	}, llm.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	breaker := llm.NewBreakerService(svc, llm.DefaultBreakerConfig(), logger)
	return rankcheck.New(breaker,
		rankcheck.WithLogger(logger),
		rankcheck.WithExtractOptions(extract.WithoutRepair(cfg.DisabledRepairs...)),
	), nil
}

// openOutput returns the report destination: the file named by path, or
// stdout when path is empty. The returned close function is never nil.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports reveal which keywords a client pays to track, so they are
	// only readable by the owner.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// outputReport writes r in the format selected by cfg. When the report
// goes to a file, stdout also gets the plain text table.
func outputReport(cfg *config.Config, r *report.Report, stdout io.Writer) error {
	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithCompetitors(cfg.Verbose))
	}
	if cfg.ReportFile != "" {
		writer = report.NewMultiWriter(writer,
			report.NewSimpleWriter(stdout, report.WithCompetitors(cfg.Verbose)))
	}

	if _, err := writer.Write(r); err != nil {
		_ = closeOutput() //nolint:errcheck // The write error is more useful
		return fmt.Errorf("failed to write report: %w", err)
	}
	return closeOutput()
}
