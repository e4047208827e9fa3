// Package extract recovers structured JSON from free-form language model
// output.
//
// Models asked for JSON answer in many shapes: bare JSON, JSON inside a
// ```json fence, JSON wrapped in prose ("Here are the results: ... Hope
// this helps!"), or almost-JSON with trailing commas, comments or raw
// newlines inside strings. Extract tries a fixed chain of strategies and
// returns the first value that parses:
//
//  1. direct-parse: the trimmed text
//  2. fenced-block-strip: the text with every ``` marker removed
//  3. regex-slice: from the first { or [ to the last matching closer
//  4. repaired-syntax: the slice after the repair chain
//
// Repairs are named and individually disableable with WithoutRepair.
// Each one is string-aware, so commas, slashes and newlines inside string
// literals are left alone (except by string-newlines, whose job is exactly
// those newlines).
//
// Decode layers typed decoding and validator tags on top of Extract:
//
//	payload, res, err := extract.Decode[rankcheck.Payload](answer)
//	var failed *extract.ExtractionFailedError
//	if errors.As(err, &failed) {
//	    logger.Warn("unparseable answer", "snippet", failed.Snippet)
//	}
//
// Everything here is pure; the only side effect is optional debug logging.
package extract
