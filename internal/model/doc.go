// Package model defines the rank tracking data shared by the tracker, the
// store and the report writers.
//
// A Session holds, per keyword, a series of RankPoints: one per calendar
// day, at most MaxHistoryPoints long, oldest first. A Position of nil means
// the domain was not found. Comparing two checks yields a change where a
// positive number is an improvement:
//
//	ComputeChange(10, 4)   -> 6
//	ComputeChange(4, 10)   -> -6
//	ComputeChange(5, nil)  -> ChangeDroppedOut (-100)
//	ComputeChange(nil, 3)  -> ChangeNewlyRanked (+100)
//	ComputeChange(nil, nil) -> nil
//
// The rest of the package derives views from sessions and results:
// Summarize for headline numbers, Distribution for charts, PivotHistory
// for date-indexed chart rows.
//
// All types serialize to JSON; Session is stored as a single document.
package model
