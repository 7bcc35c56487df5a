package email

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/history"
	"github.com/sant0-9/coldpitch/internal/llm"
	"github.com/sant0-9/coldpitch/internal/logging"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/sant0-9/coldpitch/internal/prompts"
)

// Generator runs one request through the primary endpoint, the fallback
// on failure, and records successful results in history.
type Generator struct {
	primary  llm.Provider
	fallback llm.Provider
	history  *history.Store
	now      func() time.Time

	// one generation in flight at a time; history writes keep submission order
	mu sync.Mutex
}

type Option func(*Generator)

// WithHistory records successful generations in h
func WithHistory(h *history.Store) Option {
	return func(g *Generator) {
		g.history = h
	}
}

// WithClock replaces time.Now for entry timestamps
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func New(primary, fallback llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		primary:  primary,
		fallback: fallback,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the prompts for req, calls the endpoints and parses the
// reply. Failures are returned as *GenerationError unless ctx was canceled.
func (g *Generator) Generate(ctx context.Context, req *model.Request) (*model.Email, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	logger := logging.From(ctx)

	r := *req
	r.Normalize()
	prompt := prompts.Build(&r)
	logger.Debug("prompt built",
		"strategy", prompt.Strategy,
		"industry", r.Industry,
		"signals", prompt.Signals,
	)

	content, err := g.complete(ctx, llm.NewRequest(prompt.System, prompt.User))
	if err != nil {
		return nil, err
	}

	result := ParseEmail(content, r.Company)

	if g.history != nil {
		entry := model.NewHistoryEntry(&r, result, g.now())
		if err := g.history.Append(ctx, entry); err != nil {
			logger.Error("failed to record generation", "error", err)
		}
	}

	return result, nil
}

func (g *Generator) complete(ctx context.Context, req *llm.CompletionRequest) (string, error) {
	logger := logging.From(ctx)

	resp, err := g.primary.Complete(ctx, req)
	if err == nil {
		return resp.Content, nil
	}
	if isCanceled(ctx) {
		return "", goerr.Wrap(ctx.Err(), "generation canceled")
	}

	primary := classify(g.primary.Name(), err)
	if primary.Kind == KindMalformed || g.fallback == nil {
		return "", &GenerationError{Primary: primary}
	}

	logger.Warn("primary endpoint failed, trying fallback",
		"endpoint", primary.Endpoint,
		"kind", primary.Kind,
		"status", primary.Status,
		"error", err,
	)

	resp, err = g.fallback.Complete(ctx, req)
	if err == nil {
		return resp.Content, nil
	}
	if isCanceled(ctx) {
		return "", goerr.Wrap(ctx.Err(), "generation canceled")
	}

	return "", &GenerationError{
		Primary:  primary,
		Fallback: classify(g.fallback.Name(), err),
	}
}
