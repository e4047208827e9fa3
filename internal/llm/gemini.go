package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nao1215/rankwatch/internal/model"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// generator is the part of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures GeminiService.
type GeminiConfig struct {
	// APIKey is the Gemini API (Google AI Studio) key.
	APIKey string

	// Model is the model name. Empty means DefaultModel.
	Model string

	// Temperature is passed through when non-nil.
	Temperature *float32

	// Timeout bounds a single call. Zero means no extra bound.
	Timeout time.Duration
}

// GeminiOption configures GeminiService.
type GeminiOption func(*GeminiService)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) GeminiOption {
	return func(s *GeminiService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// withGenerator replaces the genai client, for tests.
func withGenerator(g generator) GeminiOption {
	return func(s *GeminiService) {
		s.models = g
	}
}

// GeminiService calls Gemini through the Gemini API backend, optionally
// with Google Search grounding.
type GeminiService struct {
	models      generator
	model       string
	temperature *float32
	timeout     time.Duration
	logger      *slog.Logger
}

// NewGeminiService creates a Gemini-backed Service.
func NewGeminiService(ctx context.Context, cfg GeminiConfig, opts ...GeminiOption) (*GeminiService, error) {
	s := &GeminiService{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      slog.Default(),
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.models == nil {
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.models = client.Models
	}
	return s, nil
}

// Model returns the model name in use.
func (s *GeminiService) Model() string {
	return s.model
}

// Generate sends req to Gemini.
func (s *GeminiService) Generate(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, &ServiceError{Model: s.model, Err: ErrEmptyPrompt}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{}
	if s.temperature != nil {
		config.Temperature = genai.Ptr(*s.temperature)
	}
	if req.SearchGrounding {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	start := time.Now()
	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(req.Prompt), config)
	if err != nil {
		s.logger.Debug("gemini call failed", "model", s.model, "elapsed", time.Since(start), "error", err)
		return nil, &ServiceError{Model: s.model, Err: err}
	}
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &ServiceError{
			Model: s.model,
			Err:   fmt.Errorf("%w: %s", ErrBlocked, resp.PromptFeedback.BlockReason),
		}
	}

	out := toResponse(resp)
	s.logger.Debug("gemini call completed",
		"model", s.model,
		"elapsed", time.Since(start),
		"chars", len(out.Text),
		"sources", len(out.Sources),
	)
	return out, nil
}

// toResponse collects the first candidate's text parts, skipping thoughts,
// and its grounding sources.
func toResponse(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}
	cand := resp.Candidates[0]

	if cand.Content != nil {
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			b.WriteString(part.Text)
		}
		out.Text = b.String()
	}

	if gm := cand.GroundingMetadata; gm != nil {
		seen := make(map[string]bool)
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			out.Sources = append(out.Sources, model.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}
	return out
}
