// Package rankcheck checks where a domain ranks for a keyword.
//
// A Checker builds a prompt asking the report generation service to search
// for the keyword, sends it through an llm.Service with search grounding
// enabled, and recovers a Payload from the free-form answer with
// extract.Decode. Positions are read leniently (see Rank) because models
// write "#4", "4" and null interchangeably.
//
// Competitors are normalized to bare hosts; the tracked site and duplicate
// hosts are dropped.
package rankcheck
