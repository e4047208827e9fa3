package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/rankwatch/internal/config"
	"github.com/nao1215/rankwatch/internal/metrics"
	"github.com/nao1215/rankwatch/internal/tracker"
)

// shutdownTimeout bounds the graceful shutdown of the metrics server.
const shutdownTimeout = 5 * time.Second

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [keyword...]",
		Short: "Check rankings on a schedule",
		Long: `Watch keeps running and checks rankings on a cron schedule. Without
--project every project of the configuration file is watched, each on its
own schedule; runs never overlap.

Run results are exposed as Prometheus metrics on /metrics.

Examples:
  # Watch every project of .rankwatch, serving metrics on :9090
  rankwatch watch

  # Watch one project every weekday at 06:30 and check right away
  rankwatch watch -p acme --schedule "30 6 * * 1-5" --now

  # Disable the metrics endpoint
  rankwatch watch -p acme --metrics-addr ""`,
		Args: cobra.ArbitraryArgs,
		RunE: runWatchCmd,
	}

	addTargetFlags(cmd)
	cmd.Flags().String("schedule", config.DefaultSchedule,
		"Cron schedule (standard five fields, or @daily, @every 6h, ...)")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr,
		"Listen address of the metrics endpoint (empty disables it)")
	cmd.Flags().Bool("now", false,
		"Run every check once right away before waiting for the schedule")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	projects, err := loadProjects(getGlobalString(cmd, "config"))
	if err != nil {
		return err
	}
	names := []string{getProjectFlag(cmd)}
	if names[0] == "" && len(projects.Projects) > 0 {
		names = projects.ProjectNames()
	}

	configs := make([]*config.Config, 0, len(names))
	for _, name := range names {
		cfg, err := buildProjectConfig(cmd, args, projects, name)
		if err != nil {
			return err
		}
		if err := cfg.ValidateWatch(); err != nil {
			if name != "" {
				return fmt.Errorf("project %q: configuration error: %w", name, err)
			}
			return fmt.Errorf("configuration error: %w", err)
		}
		configs = append(configs, cfg)
	}

	runNow, err := cmd.Flags().GetBool("now")
	if err != nil {
		return err
	}

	logger := setupLogger(configs[0].Verbose)
	slog.SetDefault(logger)

	ctx, stop := withSignalCancel(cmd.Context(), logger)
	defer stop()

	// Every project shares the database; --db-dir and the environment
	// apply to all of them.
	db, err := openStore(configs[0], true)
	if err != nil {
		return err
	}
	defer db.Close()

	w := &watcher{
		recorder:    metrics.NewRecorder(),
		out:         cmd.OutOrStdout(),
		logger:      logger,
		runNow:      runNow,
		metricsAddr: configs[0].MetricsAddr,
	}
	for _, cfg := range configs {
		checker, err := newChecker(ctx, cfg, logger)
		if err != nil {
			return err
		}
		schedule, err := config.ParseSchedule(cfg.Schedule)
		if err != nil {
			return err
		}
		w.jobs = append(w.jobs, &watchJob{
			cfg:      cfg,
			schedule: schedule,
			tracker:  newTracker(cfg, checker, db, logger),
		})
	}

	return w.run(ctx)
}

// watchJob is one scheduled project.
type watchJob struct {
	cfg      *config.Config
	schedule cron.Schedule
	tracker  *tracker.Tracker
}

// watcher runs scheduled jobs and serves their metrics.
type watcher struct {
	jobs        []*watchJob
	recorder    *metrics.Recorder
	out         io.Writer
	logger      *slog.Logger
	runNow      bool
	metricsAddr string

	// mu keeps runs of different projects from overlapping.
	mu sync.Mutex
}

// run blocks until ctx is cancelled or the metrics server fails.
func (w *watcher) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", w.recorder.Handler())
		srv := &http.Server{
			Addr:              w.metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			w.logger.Info("serving metrics", "addr", w.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		return w.schedule(ctx)
	})

	return g.Wait()
}

// schedule registers every job with a cron scheduler and waits for ctx.
// Running jobs see the same ctx and stop between keywords.
func (w *watcher) schedule(ctx context.Context) error {
	logger := cronLogger{logger: w.logger}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	for _, job := range w.jobs {
		c.Schedule(job.schedule, cron.FuncJob(func() {
			w.runJob(ctx, job)
		}))
		w.logger.Info("scheduled rank check",
			"session", job.cfg.SessionID,
			"schedule", job.cfg.Schedule,
			"next", job.schedule.Next(time.Now()),
		)
	}

	if w.runNow {
		for _, job := range w.jobs {
			w.runJob(ctx, job)
		}
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// runJob runs one scheduled check and records its metrics.
func (w *watcher) runJob(ctx context.Context, job *watchJob) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	session := job.cfg.SessionID
	start := time.Now()
	batch, err := job.tracker.UpdateRankings(ctx, tracker.UpdateRequest{
		SessionID: session,
		Domain:    job.cfg.Domain,
		Location:  job.cfg.Location,
		Keywords:  job.cfg.Keywords,
	}, nil)

	if batch == nil || (err != nil && !errors.Is(err, tracker.ErrRunCancelled)) {
		w.recorder.ObserveFailure(session, time.Since(start))
		w.logger.Error("scheduled rank check failed", "session", session, "error", err)
		return
	}

	w.recorder.ObserveRun(batch)
	if err != nil {
		w.logger.Warn("scheduled rank check stopped early", "session", session, "error", err)
		return
	}

	summary := batch.Summary()
	fmt.Fprintf(w.out, "[%s] %s: %d checked, %d failed, %d in top 10, average position %.1f\n",
		batch.CompletedAt.Format("2006-01-02 15:04"), session,
		summary.Total, batch.Failed, summary.Top10, summary.AveragePosition)
}

// cronLogger adapts slog to the cron logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
