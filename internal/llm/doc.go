// Package llm talks to the report generation service, a search-grounded
// generative model.
//
// Service is the narrow interface the rest of rankwatch depends on: a
// prompt in, free-form text and cited sources out. GeminiService
// implements it with google.golang.org/genai against the Gemini API and
// enables the Google Search tool when a request asks for grounding.
// BreakerService wraps any Service in a sony/gobreaker circuit breaker so
// that a revoked key or an exhausted quota stops a batch early.
//
// Every failure is a *ServiceError whose message is the provider's own.
package llm
