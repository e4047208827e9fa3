// Package database provides SQLite-based storage for rankwatch.
//
// RankDB keeps two tables:
//   - sessions: one JSON-encoded model.Session per session ID, replaced as
//     a whole on every save
//   - runs: one row per tracker run with its state, counts and summary
//
// The driver is modernc.org/sqlite, so the binary needs no CGO. The
// database lives in the XDG data directory unless --db-dir says otherwise.
package database
