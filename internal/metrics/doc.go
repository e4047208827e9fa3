// Package metrics exposes the outcome of scheduled rank checks as
// Prometheus metrics.
//
// A Recorder owns its own registry so that several recorders (one per test,
// for instance) never collide on the global default registry. Handler
// serves that registry on /metrics for the watch command.
package metrics
