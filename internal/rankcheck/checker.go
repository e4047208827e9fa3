package rankcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nao1215/rankwatch/internal/domain"
	"github.com/nao1215/rankwatch/internal/extract"
	"github.com/nao1215/rankwatch/internal/llm"
	"github.com/nao1215/rankwatch/internal/model"
)

// ErrEmptyKeyword is returned when asked to check a blank keyword.
var ErrEmptyKeyword = errors.New("keyword is empty")

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithExtractOptions passes options to the JSON recovery step.
func WithExtractOptions(opts ...extract.Option) Option {
	return func(c *Checker) {
		c.extractOpts = append(c.extractOpts, opts...)
	}
}

// Checker asks the report generation service where a domain ranks for one
// keyword and turns the answer into a model.RankCheck.
type Checker struct {
	svc         llm.Service
	logger      *slog.Logger
	extractOpts []extract.Option
}

// New creates a Checker backed by svc.
func New(svc llm.Service, opts ...Option) *Checker {
	c := &Checker{
		svc:    svc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.extractOpts = append([]extract.Option{extract.WithLogger(c.logger)}, c.extractOpts...)
	return c
}

// CheckRank checks one keyword. Errors are *llm.ServiceError when the call
// failed, extract.ErrEmptyInput when the model said nothing, and
// *extract.ExtractionFailedError when the answer could not be used.
func (c *Checker) CheckRank(ctx context.Context, site, location, keyword string) (*model.RankCheck, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	site = domain.Normalize(site)

	resp, err := c.svc.Generate(ctx, llm.Request{
		Prompt:          BuildPrompt(site, location, keyword),
		SearchGrounding: true,
	})
	if err != nil {
		return nil, err
	}

	payload, res, err := extract.Decode[Payload](resp.Text, c.extractOpts...)
	if err != nil {
		var failed *extract.ExtractionFailedError
		if errors.As(err, &failed) {
			c.logger.Debug("unusable rank answer", "keyword", keyword, "snippet", failed.Snippet, "error", failed.Err)
		}
		return nil, fmt.Errorf("keyword %q: %w", keyword, err)
	}
	c.logger.Debug("rank answer parsed", "keyword", keyword, "strategy", res.Strategy.String())

	check := &model.RankCheck{
		Keyword:     keyword,
		Position:    payload.Position.Int(),
		URL:         strings.TrimSpace(payload.URL),
		Competitors: competitors(site, payload.Competitors),
		Sources:     resp.Sources,
	}
	if check.URL != "" && !domain.SameSite(check.URL, site) {
		c.logger.Warn("ranking URL is not on the tracked domain", "keyword", keyword, "url", check.URL, "domain", site)
	}
	return check, nil
}

// competitors normalizes competitor domains, drops the tracked site and
// duplicates, and orders by position with unranked entries last.
func competitors(site string, in []CompetitorPayload) []model.CompetitorRank {
	seen := make(map[string]bool, len(in))
	var out []model.CompetitorRank
	for _, cp := range in {
		host := domain.Host(cp.Domain)
		if host == "" {
			host = strings.ToLower(strings.TrimSpace(cp.Domain))
		}
		if host == "" || seen[host] || domain.SameSite(host, site) {
			continue
		}
		seen[host] = true
		out = append(out, model.CompetitorRank{
			Domain:   host,
			Position: cp.Position.Int(),
			URL:      strings.TrimSpace(cp.URL),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Position, out[j].Position
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
	return out
}
