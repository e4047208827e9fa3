package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Strategy names the step of the recovery chain that produced a value.
type Strategy string

// Strategies, in the order they are attempted.
const (
	// StrategyDirect parses the trimmed text as is.
	StrategyDirect Strategy = "direct-parse"

	// StrategyFenced parses the text after every code fence marker is removed.
	StrategyFenced Strategy = "fenced-block-strip"

	// StrategySlice parses the largest bracketed region of the text.
	StrategySlice Strategy = "regex-slice"

	// StrategyRepaired parses the bracketed region after the repair chain.
	StrategyRepaired Strategy = "repaired-syntax"
)

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// Result is a successfully recovered value.
type Result struct {
	// Value is the decoded JSON: map[string]any, []any, string, bool,
	// json.Number or nil.
	Value any

	// Strategy is the strategy that produced Value.
	Strategy Strategy

	// Candidate is the exact text that parsed.
	Candidate string

	// Repairs lists the repairs that changed the candidate. It is empty
	// unless Strategy is StrategyRepaired.
	Repairs []string
}

// Option configures Extract.
type Option func(*extractor)

// WithLogger sets the logger used for debug output. Extract never logs above
// debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithoutRepair disables the named repairs.
func WithoutRepair(names ...string) Option {
	return func(e *extractor) {
		for _, name := range names {
			e.disabled[name] = true
		}
	}
}

type extractor struct {
	logger   *slog.Logger
	repairs  []Repair
	disabled map[string]bool
}

// Extract recovers one JSON value from free-form model output. It tries, in
// order: a direct parse, a parse after fence stripping, a parse of the
// largest bracketed region, and a parse of that region after repairs. The
// first success wins.
//
// Empty or whitespace-only text yields ErrEmptyInput. When every strategy
// fails the error is an *ExtractionFailedError.
func Extract(text string, opts ...Option) (*Result, error) {
	e := &extractor{
		logger:   slog.Default(),
		repairs:  DefaultRepairs(),
		disabled: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e.extract(text)
}

func (e *extractor) extract(text string) (*Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	value, err := parse(trimmed)
	if err == nil {
		return e.success(StrategyDirect, trimmed, value, nil), nil
	}

	lastStrategy, lastCandidate, lastErr := StrategyDirect, trimmed, err

	stripped := trimmed
	if HasFence(trimmed) {
		stripped = StripFences(trimmed)
		value, err = parse(stripped)
		if err == nil {
			return e.success(StrategyFenced, stripped, value, nil), nil
		}
		lastStrategy, lastCandidate, lastErr = StrategyFenced, stripped, err
	}

	for _, candidate := range sliceCandidates(stripped) {
		value, err = parse(candidate)
		if err == nil {
			return e.success(StrategySlice, candidate, value, nil), nil
		}
		lastStrategy, lastCandidate, lastErr = StrategySlice, candidate, err

		repaired, applied := e.repair(candidate)
		if len(applied) == 0 {
			continue
		}
		value, err = parse(repaired)
		if err == nil {
			return e.success(StrategyRepaired, repaired, value, applied), nil
		}
		lastStrategy, lastCandidate, lastErr = StrategyRepaired, repaired, err
	}

	e.logger.Debug("json recovery failed",
		"strategy", lastStrategy.String(),
		"error", lastErr,
		"snippet", snippet(lastCandidate),
	)
	return nil, &ExtractionFailedError{
		Snippet:  snippet(lastCandidate),
		Strategy: lastStrategy,
		Err:      lastErr,
	}
}

func (e *extractor) success(strategy Strategy, candidate string, value any, repairs []string) *Result {
	e.logger.Debug("json recovered", "strategy", strategy.String(), "repairs", repairs)
	return &Result{
		Value:     value,
		Strategy:  strategy,
		Candidate: candidate,
		Repairs:   repairs,
	}
}

// repair runs the enabled repairs over candidate and returns the result with
// the names of the repairs that changed it.
func (e *extractor) repair(candidate string) (string, []string) {
	var applied []string
	for _, r := range e.repairs {
		if e.disabled[r.Name] {
			continue
		}
		next := r.Apply(candidate)
		if next != candidate {
			applied = append(applied, r.Name)
			candidate = next
		}
	}
	return candidate, applied
}

// sliceCandidates returns the bracketed regions of text, largest first. A
// region runs from the first opener of its kind to the last matching closer,
// so there is at most one object region and one array region.
func sliceCandidates(text string) []string {
	obj := bracketRegion(text, '{', '}')
	arr := bracketRegion(text, '[', ']')
	if len(arr) > len(obj) {
		obj, arr = arr, obj
	}

	var out []string
	if obj != "" {
		out = append(out, obj)
	}
	if arr != "" && arr != obj {
		out = append(out, arr)
	}
	return out
}

func bracketRegion(text string, opener, closer byte) string {
	start := strings.IndexByte(text, opener)
	if start < 0 {
		return ""
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}

// errTrailingData is returned by parse when the text holds more than one
// JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

// parse decodes exactly one JSON value from s. Numbers are kept as
// json.Number so that re-encoding is lossless.
func parse(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w at offset %d", errTrailingData, dec.InputOffset())
	}
	return v, nil
}
