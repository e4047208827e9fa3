// Package tracker runs rank checks for a list of keywords and keeps the
// session history up to date.
//
// A Tracker processes keywords one at a time and in order: it waits the
// configured delay, asks its Checker for the position, compares it with the
// stored history and appends the new point. A failed check does not stop
// the run; it is reported as a result with Error set. When every keyword
// has been processed the session is saved once and the run is logged.
//
// Only one run may be in flight per Tracker. Cancellation is honored
// between keywords; a cancelled run returns its partial results and leaves
// the stored session untouched unless WithPersistEachKeyword is set.
package tracker
