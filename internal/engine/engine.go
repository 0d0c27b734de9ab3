// Package engine implements the AI-backed operations: free-form stories,
// person summaries built from stored memories and the home page highlight.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lazypower/rememberme/internal/llm"
	"github.com/lazypower/rememberme/internal/metrics"
	"github.com/lazypower/rememberme/internal/store"
)

// NoStory is returned in place of an empty model response.
const NoStory = "No story received."

// Operation names used for metrics and logs.
const (
	OpStory     = "story"
	OpPerson    = "person"
	OpHighlight = "highlight"
)

// Engine runs AI requests against the configured provider using the store
// for context.
type Engine struct {
	Store   store.Store
	LLM     llm.Client
	Metrics *metrics.Collector
	log     zerolog.Logger
}

// New creates a new Engine. client may be nil, in which case every call
// fails with a provider error and highlights fall back to plain text.
func New(s store.Store, client llm.Client) *Engine {
	return &Engine{
		Store: s,
		LLM:   client,
		log:   zerolog.Nop(),
	}
}

// SetLogger configures the engine logger.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l.With().Str("component", "engine").Logger()
}

// SetMetrics configures the AI request counter.
func (e *Engine) SetMetrics(c *metrics.Collector) {
	e.Metrics = c
}

// GenerateStory writes a short story for prompt, optionally drawing on the
// given memory texts.
func (e *Engine) GenerateStory(ctx context.Context, prompt string, memories []string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", store.Invalid("prompt is required")
	}

	text, err := e.complete(ctx, OpStory, llm.StoryPrompt(prompt, memories))
	if err != nil {
		return "", err
	}
	if text == "" {
		return NoStory, nil
	}
	return text, nil
}

// PersonStory summarizes who personName is from the memories stored about
// them. It returns store.ErrNotFound when there are none.
func (e *Engine) PersonStory(ctx context.Context, personName string) (string, error) {
	personName = strings.TrimSpace(personName)
	if personName == "" {
		return "", store.Invalid("personName is required")
	}

	mems, err := e.Store.Memories().List(ctx, store.MemoryFilter{PersonName: personName})
	if err != nil {
		return "", fmt.Errorf("list memories for %s: %w", personName, err)
	}
	if len(mems) == 0 {
		return "", fmt.Errorf("no memories for %s: %w", personName, store.ErrNotFound)
	}

	texts := make([]string, 0, len(mems))
	for _, m := range mems {
		texts = append(texts, m.MemoryText)
	}

	text, err := e.complete(ctx, OpPerson, llm.PersonStoryPrompt(personName, texts))
	if err != nil {
		return "", err
	}
	if text == "" {
		return NoStory, nil
	}
	return text, nil
}

// Highlight picks a random memory and asks the model to rephrase it. Any
// provider failure, or an empty answer, yields the plain fallback text
// instead of an error. An empty collection is store.ErrNotFound.
func (e *Engine) Highlight(ctx context.Context) (string, error) {
	m, err := e.Store.Memories().Random(ctx)
	if err != nil {
		return "", fmt.Errorf("random memory: %w", err)
	}

	text, err := e.complete(ctx, OpHighlight, llm.HighlightPrompt(m.PersonName, m.Relationship, m.MemoryText))
	if err != nil {
		e.log.Warn().Err(err).Str("memory", m.ID).Msg("highlight: using fallback")
		e.Metrics.ObserveAI(OpHighlight, metrics.OutcomeFallback)
		return Fallback(m), nil
	}
	if text == "" {
		return Fallback(m), nil
	}
	return text, nil
}

// Fallback is the highlight shown when the model cannot be reached.
func Fallback(m *store.Memory) string {
	return fmt.Sprintf("Remember this memory with %s, your %s: %s", m.PersonName, m.Relationship, m.MemoryText)
}

func (e *Engine) complete(ctx context.Context, op, prompt string) (string, error) {
	client := e.LLM
	if client == nil {
		e.Metrics.ObserveAI(op, metrics.OutcomeError)
		return "", &llm.ProviderError{Provider: "llm", Err: errors.New("LLM not configured")}
	}

	resp, err := client.Complete(ctx, prompt)
	if err != nil {
		e.Metrics.ObserveAI(op, metrics.OutcomeError)
		var perr *llm.ProviderError
		if !errors.As(err, &perr) {
			err = &llm.ProviderError{Provider: "llm", Err: err}
		}
		return "", err
	}
	e.Metrics.ObserveAI(op, metrics.OutcomeSuccess)

	e.log.Debug().Str("op", op).Str("provider", resp.Provider).Int("tokens", resp.TokensUsed).Msg("completion")
	return strings.TrimSpace(resp.Content), nil
}
