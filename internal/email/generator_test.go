package email_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/email"
	"github.com/sant0-9/coldpitch/internal/history"
	"github.com/sant0-9/coldpitch/internal/llm"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/sant0-9/coldpitch/internal/storage"
)

type endpoint struct {
	server *httptest.Server
	calls  atomic.Int32
	last   atomic.Value
}

// newEndpoint serves status and body for every completion call
func newEndpoint(t *testing.T, status int, body string) *endpoint {
	t.Helper()
	ep := &endpoint{}
	ep.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ep.calls.Add(1)
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			ep.last.Store(payload)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ep.server.Close)
	return ep
}

func (e *endpoint) payload() map[string]any {
	v, _ := e.last.Load().(map[string]any)
	return v
}

func reply(content string) string {
	data, _ := json.Marshal(map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(data)
}

func clients(t *testing.T, primaryURL, fallbackURL string) (llm.Provider, llm.Provider) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.APIKey = "test-token"
	cfg.Primary.BaseURL = primaryURL
	cfg.Fallback.BaseURL = fallbackURL
	cfg.Timeout = 5 * time.Second

	primary, fallback, err := llm.NewProviders(cfg)
	gt.NoError(t, err)
	return primary, fallback
}

func sampleRequest() *model.Request {
	return &model.Request{
		Bio:                 "Fractional CMO, worked with 12 brands",
		Offer:               "Retention audit",
		Target:              "Head of Growth",
		Company:             "Acme",
		Industry:            "eCommerce",
		PainPoint:           "repeat purchase rate is flat",
		CompaniesWorkedWith: "Allbirds, Glossier",
	}
}

func TestGeneratePrimarySuccess(t *testing.T) {
	primary := newEndpoint(t, 200, reply("Subject: Quick win for Acme\n\nHi John,..."))
	fallback := newEndpoint(t, 200, reply("unused"))
	p, f := clients(t, primary.server.URL, fallback.server.URL)

	store := history.New(storage.NewMemoryStore())
	now := time.UnixMilli(1700000000000)
	gen := email.New(p, f, email.WithHistory(store), email.WithClock(func() time.Time { return now }))

	result, err := gen.Generate(context.Background(), sampleRequest())
	gt.NoError(t, err)
	gt.Equal(t, result.Subject, "Quick win for Acme")
	gt.Equal(t, result.Body, "Hi John,...")

	gt.Equal(t, primary.calls.Load(), int32(1))
	gt.Equal(t, fallback.calls.Load(), int32(0))

	payload := primary.payload()
	gt.Equal(t, payload["model"], any("openai/gpt-4.1"))
	gt.Equal(t, payload["temperature"], any(0.85))
	gt.Equal(t, payload["top_p"], any(0.95))
	_, hasMax := payload["max_tokens"]
	gt.False(t, hasMax)

	entries := store.List(context.Background())
	gt.A(t, entries).Length(1)
	gt.Equal(t, entries[0].Subject, "Quick win for Acme")
	gt.Equal(t, entries[0].Inputs.UseCase, "eCommerce")
	gt.Equal(t, entries[0].Timestamp, now.UnixMilli())
}

func TestGenerateFallsBackOnStatus(t *testing.T) {
	primary := newEndpoint(t, 503, "busy")
	fallback := newEndpoint(t, 200, reply("subject: From fallback\nBody text"))
	p, f := clients(t, primary.server.URL, fallback.server.URL)

	result, err := email.New(p, f).Generate(context.Background(), sampleRequest())
	gt.NoError(t, err)
	gt.Equal(t, result.Subject, "From fallback")
	gt.Equal(t, result.Body, "Body text")

	payload := fallback.payload()
	gt.Equal(t, payload["model"], any("gpt-4-turbo"))
	gt.Equal(t, payload["max_tokens"], any(float64(600)))
	gt.Equal(t, payload["temperature"], any(0.85))

	// both legs receive the same messages
	gt.Equal(t, payload["messages"], primary.payload()["messages"])
}

func TestGenerateFallsBackOnNetworkFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	fallback := newEndpoint(t, 200, reply("Subject: Recovered\n\nStill here"))
	p, f := clients(t, deadURL, fallback.server.URL)

	result, err := email.New(p, f).Generate(context.Background(), sampleRequest())
	gt.NoError(t, err)
	gt.Equal(t, result.Subject, "Recovered")
	gt.Equal(t, fallback.calls.Load(), int32(1))
}

func TestGenerateBothFail(t *testing.T) {
	primary := newEndpoint(t, 500, "primary down")
	fallback := newEndpoint(t, 500, "fallback down")
	p, f := clients(t, primary.server.URL, fallback.server.URL)

	store := history.New(storage.NewMemoryStore())
	result, err := email.New(p, f, email.WithHistory(store)).Generate(context.Background(), sampleRequest())
	gt.Error(t, err)
	gt.True(t, result == nil)

	var genErr *email.GenerationError
	gt.True(t, errors.As(err, &genErr))
	gt.Equal(t, genErr.Statuses(), []int{500, 500})
	gt.Equal(t, genErr.Primary.Kind, email.KindStatus)
	gt.Equal(t, genErr.Fallback.Kind, email.KindStatus)
	gt.S(t, err.Error()).Contains("500")

	var statusErr *llm.StatusError
	gt.True(t, errors.As(err, &statusErr))

	gt.A(t, store.List(context.Background())).Length(0)
}

func TestMalformedPrimaryIsTerminal(t *testing.T) {
	primary := newEndpoint(t, 200, `{"choices":[]}`)
	fallback := newEndpoint(t, 200, reply("Subject: never\n\nnever"))
	p, f := clients(t, primary.server.URL, fallback.server.URL)

	_, err := email.New(p, f).Generate(context.Background(), sampleRequest())
	gt.Error(t, err)

	var genErr *email.GenerationError
	gt.True(t, errors.As(err, &genErr))
	gt.Equal(t, genErr.Primary.Kind, email.KindMalformed)
	gt.True(t, genErr.Fallback == nil)
	gt.True(t, errors.Is(err, llm.ErrMalformedResponse))
	gt.Equal(t, fallback.calls.Load(), int32(0))
}

func TestMalformedFallback(t *testing.T) {
	primary := newEndpoint(t, 401, "bad token")
	fallback := newEndpoint(t, 200, `{"choices":[{"finish_reason":"stop"}]}`)
	p, f := clients(t, primary.server.URL, fallback.server.URL)

	_, err := email.New(p, f).Generate(context.Background(), sampleRequest())
	var genErr *email.GenerationError
	gt.True(t, errors.As(err, &genErr))
	gt.Equal(t, genErr.Primary.Status, 401)
	gt.Equal(t, genErr.Fallback.Kind, email.KindMalformed)
	gt.S(t, err.Error()).Contains("invalid response format")
}

func TestCanceledContextSkipsFallback(t *testing.T) {
	primary := newEndpoint(t, 200, reply("late"))
	fallback := newEndpoint(t, 200, reply("late"))
	p, f := clients(t, primary.server.URL, fallback.server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := email.New(p, f).Generate(ctx, sampleRequest())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, context.Canceled))
	gt.Equal(t, fallback.calls.Load(), int32(0))
}

func TestReuseRoundTrip(t *testing.T) {
	primary := newEndpoint(t, 200, reply("Subject: Hello\n\nBody"))
	p, f := clients(t, primary.server.URL, primary.server.URL)

	store := history.New(storage.NewMemoryStore())
	gen := email.New(p, f, email.WithHistory(store))

	req := sampleRequest()
	req.IsNewToField = true
	_, err := gen.Generate(context.Background(), req)
	gt.NoError(t, err)
	first := primary.payload()

	entries := store.List(context.Background())
	gt.A(t, entries).Length(1)
	reused := entries[0].Reuse()

	gt.Equal(t, reused.Target, req.Target)
	gt.Equal(t, reused.Company, req.Company)
	gt.Equal(t, reused.PainPoint, req.PainPoint)
	gt.Equal(t, reused.CompaniesWorkedWith, req.CompaniesWorkedWith)
	gt.Equal(t, reused.IsNewToField, req.IsNewToField)

	_, err = gen.Generate(context.Background(), reused)
	gt.NoError(t, err)

	// identical inputs build identical prompts
	gt.Equal(t, primary.payload()["messages"], first["messages"])
	gt.A(t, store.List(context.Background())).Length(2)
}
