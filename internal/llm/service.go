package llm

import (
	"context"

	"github.com/nao1215/rankwatch/internal/model"
)

// Request is one prompt for the report generation service.
type Request struct {
	// Prompt is the complete natural-language request.
	Prompt string

	// SearchGrounding lets the model run web searches and cite them.
	SearchGrounding bool
}

// Response is the model's answer.
type Response struct {
	// Text is the free-form answer with reasoning parts left out.
	Text string

	// Sources are the pages the model cited, deduplicated by URI.
	Sources []model.Source
}

// Service generates text for a prompt. Implementations return a
// *ServiceError for every failure.
type Service interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, req Request) (*Response, error)

// Generate calls f.
func (f ServiceFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
