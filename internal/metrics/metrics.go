package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/rankwatch/internal/model"
)

// Namespace prefixes every metric name.
const Namespace = "rankwatch"

// Outcome labels of the checks counter.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// Recorder holds the metrics of rank check runs.
type Recorder struct {
	registry *prometheus.Registry

	checks          *prometheus.CounterVec
	runs            *prometheus.CounterVec
	position        *prometheus.GaugeVec
	averagePosition *prometheus.GaugeVec
	top10           *prometheus.GaugeVec
	lastRun         *prometheus.GaugeVec
	runDuration     prometheus.Histogram
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "checks_total",
				Help:      "Total number of keyword checks by outcome",
			},
			[]string{"session", "outcome"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Total number of runs by final state",
			},
			[]string{"session", "state"},
		),
		position: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "keyword_position",
				Help:      "Latest position per keyword, 100 when not found",
			},
			[]string{"session", "keyword"},
		),
		averagePosition: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "average_position",
				Help:      "Average position of the last run",
			},
			[]string{"session"},
		),
		top10: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "top10_keywords",
				Help:      "Keywords ranked in the top 10 in the last run",
			},
			[]string{"session"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Completion time of the last run",
			},
			[]string{"session"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of a run in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
		),
	}

	r.registry.MustRegister(
		r.checks,
		r.runs,
		r.position,
		r.averagePosition,
		r.top10,
		r.lastRun,
		r.runDuration,
	)
	return r
}

// Registry returns the registry the metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records a finished run. A cancelled run counts its checks but
// leaves the gauges of the previous complete run in place.
func (r *Recorder) ObserveRun(batch *model.BatchResult) {
	if batch == nil {
		return
	}
	session := batch.SessionID

	for _, res := range batch.Results {
		r.checks.WithLabelValues(session, outcome(res)).Inc()
	}

	state := "completed"
	if batch.Cancelled {
		state = "cancelled"
	}
	r.runs.WithLabelValues(session, state).Inc()
	if !batch.CompletedAt.IsZero() && !batch.StartedAt.IsZero() {
		r.runDuration.Observe(batch.CompletedAt.Sub(batch.StartedAt).Seconds())
	}
	if batch.Cancelled {
		return
	}

	for _, res := range batch.Results {
		if res.Failed() {
			continue
		}
		pos := model.NotFoundPosition
		if res.Position != nil {
			pos = *res.Position
		}
		r.position.WithLabelValues(session, res.Keyword).Set(float64(pos))
	}
	summary := batch.Summary()
	r.averagePosition.WithLabelValues(session).Set(summary.AveragePosition)
	r.top10.WithLabelValues(session).Set(float64(summary.Top10))
	r.lastRun.WithLabelValues(session).Set(float64(batch.CompletedAt.Unix()))
}

// ObserveFailure records a run that could not produce results at all.
func (r *Recorder) ObserveFailure(session string, elapsed time.Duration) {
	r.runs.WithLabelValues(session, "failed").Inc()
	r.runDuration.Observe(elapsed.Seconds())
}

// Handler serves the recorder's metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func outcome(res model.KeywordResult) string {
	switch {
	case res.Failed():
		return OutcomeFailed
	case res.Found():
		return OutcomeFound
	default:
		return OutcomeNotFound
	}
}
