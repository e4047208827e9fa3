package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/nao1215/rankwatch/internal/domain"
	"github.com/nao1215/rankwatch/internal/model"
)

// Checker checks where site ranks for one keyword.
// *rankcheck.Checker implements it.
type Checker interface {
	CheckRank(ctx context.Context, site, location, keyword string) (*model.RankCheck, error)
}

// Store reads and writes sessions and logs runs.
// *database.RankDB implements it.
type Store interface {
	// LoadSession returns nil and no error when the session does not exist.
	LoadSession(ctx context.Context, id string) (*model.Session, error)
	SaveSession(ctx context.Context, s *model.Session) error
	RecordRun(ctx context.Context, run *model.RunRecord) error
}

// ProgressFunc is called after each keyword with the number of keywords
// processed so far and the total.
type ProgressFunc func(done, total int)

// UpdateRequest describes one run.
type UpdateRequest struct {
	// SessionID selects the stored session. Empty means
	// model.DefaultSessionID.
	SessionID string

	Domain   string
	Location string

	// Keywords are checked in order after normalization and
	// de-duplication.
	Keywords []string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithRequestDelay sets the pause between two checks. Zero disables it.
func WithRequestDelay(d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.delay = d
		}
	}
}

// WithPersistEachKeyword saves the session after every keyword instead of
// once at the end, so an interrupted run keeps what it already checked.
func WithPersistEachKeyword(enabled bool) Option {
	return func(t *Tracker) {
		t.persistEach = enabled
	}
}

// WithHistoryLimit sets how many points each series keeps.
func WithHistoryLimit(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.historyLimit = n
		}
	}
}

// WithIDGenerator replaces the run ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) {
		if gen != nil {
			t.newID = gen
		}
	}
}

// Tracker orchestrates rank checks and history updates.
type Tracker struct {
	checker Checker
	store   Store
	logger  *slog.Logger

	now          func() time.Time
	newID        func() string
	delay        time.Duration
	persistEach  bool
	historyLimit int

	// run admits a single UpdateRankings at a time.
	run *semaphore.Weighted

	mu     sync.Mutex
	status Status
}

// New creates a Tracker.
func New(checker Checker, store Store, opts ...Option) *Tracker {
	t := &Tracker{
		checker:      checker,
		store:        store,
		logger:       slog.Default(),
		now:          time.Now,
		newID:        uuid.NewString,
		historyLimit: model.MaxHistoryPoints,
		run:          semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Status returns a snapshot of the current progress.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Tracker) setStatus(update func(*Status)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	update(&t.status)
}

// UpdateRankings checks every keyword of req and updates the stored
// session.
//
// Failed checks are recorded as results with Error set and counted in
// BatchResult.Failed; they do not stop the run and add no history point.
// When ctx is cancelled between keywords the partial result is returned
// together with an error wrapping ErrRunCancelled and ctx.Err().
func (t *Tracker) UpdateRankings(ctx context.Context, req UpdateRequest, progress ProgressFunc) (*model.BatchResult, error) {
	if !t.run.TryAcquire(1) {
		return nil, ErrRunInProgress
	}
	defer t.run.Release(1)

	site := domain.Normalize(req.Domain)
	if !domain.IsValidDomain(site) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, req.Domain)
	}
	keywords := model.NormalizeKeywords(req.Keywords)
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	if progress == nil {
		progress = func(int, int) {}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = model.DefaultSessionID
	}
	session, err := t.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %q: %w", sessionID, err)
	}
	if session == nil {
		session = model.NewSession(sessionID)
	}
	if session.History == nil {
		session.History = make(map[string][]model.RankPoint)
	}
	session.Domain = site
	session.Location = req.Location
	session.Keywords = keywords

	batch := &model.BatchResult{
		RunID:     t.newID(),
		SessionID: sessionID,
		Domain:    site,
		Location:  req.Location,
		StartedAt: t.now(),
		Results:   make([]model.KeywordResult, 0, len(keywords)),
	}
	total := len(keywords)
	t.setStatus(func(s *Status) {
		*s = Status{State: StateRunning, RunID: batch.RunID, Total: total}
	})
	t.logger.Info("starting rank check",
		"run_id", batch.RunID,
		"domain", site,
		"location", req.Location,
		"keywords", total,
	)

	for i, kw := range keywords {
		if err := ctx.Err(); err != nil {
			return t.cancel(ctx, batch, err)
		}
		if i > 0 && t.delay > 0 {
			if err := sleep(ctx, t.delay); err != nil {
				return t.cancel(ctx, batch, err)
			}
		}

		t.logger.Debug("checking keyword", "keyword", kw, "index", i+1, "total", total)
		check, checkErr := t.checker.CheckRank(ctx, site, req.Location, kw)
		if checkErr != nil && ctx.Err() != nil {
			// The check was interrupted, not answered.
			return t.cancel(ctx, batch, ctx.Err())
		}

		now := t.now()
		result := t.apply(session, kw, model.DateOf(now), check, checkErr)
		if result.Failed() {
			batch.Failed++
		}
		batch.Results = append(batch.Results, result)

		if t.persistEach {
			session.LastChecked = now
			if err := t.store.SaveSession(ctx, session); err != nil {
				return t.fail(ctx, batch, fmt.Errorf("failed to save session %q: %w", sessionID, err))
			}
		}

		t.setStatus(func(s *Status) { s.Current = i + 1 })
		progress(i+1, total)
	}

	session.LastChecked = t.now()
	if err := t.store.SaveSession(ctx, session); err != nil {
		return t.fail(ctx, batch, fmt.Errorf("failed to save session %q: %w", sessionID, err))
	}

	batch.CompletedAt = session.LastChecked
	t.setStatus(func(s *Status) { s.State = StateCompleted })
	t.record(ctx, batch, StateCompleted)
	t.logger.Info("rank check completed",
		"run_id", batch.RunID,
		"checked", total,
		"failed", batch.Failed,
		"elapsed", batch.CompletedAt.Sub(batch.StartedAt),
	)
	return batch, nil
}

// apply turns one check outcome into a result and, for a successful check,
// appends the point to the session history.
func (t *Tracker) apply(session *model.Session, kw, date string, check *model.RankCheck, checkErr error) model.KeywordResult {
	series := session.History[kw]
	previous := model.PreviousPosition(series, date)
	result := model.KeywordResult{
		Keyword:          kw,
		PreviousPosition: previous,
		CheckedDate:      date,
	}

	if checkErr == nil && check == nil {
		checkErr = errors.New("checker returned no result")
	}
	if checkErr != nil {
		t.logger.Warn("rank check failed", "keyword", kw, "error", checkErr)
		result.Error = checkErr.Error()
		result.Change = model.IntPtr(0)
		return result
	}

	result.Position = check.Position
	result.Change = model.ComputeChange(previous, check.Position)
	result.Trend = model.TrendOf(previous, check.Position)
	result.URL = check.URL
	result.Competitors = check.Competitors
	result.Sources = check.Sources
	session.History[kw] = model.AppendPoint(series, model.RankPoint{Date: date, Position: check.Position}, t.historyLimit)
	return result
}

func (t *Tracker) cancel(ctx context.Context, batch *model.BatchResult, cause error) (*model.BatchResult, error) {
	batch.Cancelled = true
	t.logger.Warn("rank check cancelled",
		"run_id", batch.RunID,
		"checked", len(batch.Results),
		"reason", cause,
	)
	return t.fail(ctx, batch, fmt.Errorf("%w: %w", ErrRunCancelled, cause))
}

func (t *Tracker) fail(ctx context.Context, batch *model.BatchResult, err error) (*model.BatchResult, error) {
	batch.CompletedAt = t.now()
	t.setStatus(func(s *Status) {
		s.State = StateFailed
		s.Err = err
	})
	t.record(ctx, batch, StateFailed)
	return batch, err
}

// record logs the run. It uses a context detached from cancellation so that
// a cancelled run is still logged; a failure to log is not a run failure.
func (t *Tracker) record(ctx context.Context, batch *model.BatchResult, state State) {
	run := &model.RunRecord{
		ID:          batch.RunID,
		SessionID:   batch.SessionID,
		StartedAt:   batch.StartedAt,
		CompletedAt: batch.CompletedAt,
		State:       state.String(),
		Total:       len(batch.Results),
		Failed:      batch.Failed,
		Summary:     batch.Summary(),
	}
	if err := t.store.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		t.logger.Warn("failed to record run", "run_id", batch.RunID, "error", err)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
