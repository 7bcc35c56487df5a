package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/llm"
)

func newClient(t *testing.T, url, token string) *llm.Client {
	t.Helper()
	client, err := llm.NewClient(config.Endpoint{
		BaseURL:     url,
		Model:       "gpt-4-turbo",
		Temperature: 0.85,
		TopP:        0.95,
		MaxTokens:   600,
	}, token, 5*time.Second)
	gt.NoError(t, err)
	return client
}

func TestCompleteSendsPayload(t *testing.T) {
	var got map[string]any
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gpt-4-turbo-2024","choices":[{"message":{"role":"assistant","content":"Subject: Hi\n\nBody"},"finish_reason":"stop"}],"usage":{"total_tokens":42}}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, "secret")
	resp, err := client.Complete(context.Background(), llm.NewRequest("sys", "usr"))
	gt.NoError(t, err)

	gt.Equal(t, resp.Content, "Subject: Hi\n\nBody")
	gt.Equal(t, resp.Model, "gpt-4-turbo-2024")
	gt.Equal(t, resp.Usage.TotalTokens, 42)
	gt.Equal(t, auth, "Bearer secret")

	gt.Equal(t, got["model"], any("gpt-4-turbo"))
	gt.Equal(t, got["temperature"], any(0.85))
	gt.Equal(t, got["top_p"], any(0.95))
	gt.Equal(t, got["max_tokens"], any(float64(600)))
	messages, ok := got["messages"].([]any)
	gt.True(t, ok)
	gt.A(t, messages).Length(2)
}

func TestRequestOverridesEndpointDefaults(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	req := llm.NewRequest("sys", "usr")
	req.Model = "gpt-4o"
	temperature := 0.2
	req.Temperature = &temperature

	_, err := newClient(t, server.URL, "k").Complete(context.Background(), req)
	gt.NoError(t, err)
	gt.Equal(t, got["model"], any("gpt-4o"))
	gt.Equal(t, got["temperature"], any(0.2))
}

func TestZeroSamplingValuesAreSent(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client, err := llm.NewClient(config.Endpoint{
		BaseURL: server.URL,
		Model:   "gpt-4-turbo",
		TopP:    0.95,
	}, "k", 5*time.Second)
	gt.NoError(t, err)

	_, err = client.Complete(context.Background(), llm.NewRequest("sys", "usr"))
	gt.NoError(t, err)
	gt.Equal(t, got["temperature"], any(float64(0)))
	_, hasMax := got["max_tokens"]
	gt.False(t, hasMax)

	req := llm.NewRequest("sys", "usr")
	zero := 0.0
	req.TopP = &zero
	_, err = client.Complete(context.Background(), req)
	gt.NoError(t, err)
	gt.Equal(t, got["top_p"], any(float64(0)))
}

func TestPlaceholderTokenIsSent(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Primary.BaseURL = server.URL
	cfg.Fallback.BaseURL = server.URL

	primary, _, err := llm.NewProviders(cfg)
	gt.NoError(t, err)

	_, err = primary.Complete(context.Background(), llm.NewRequest("s", "u"))
	gt.Error(t, err)
	gt.Equal(t, auth, "Bearer "+config.PlaceholderToken)
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded\n"))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, "k").Complete(context.Background(), llm.NewRequest("s", "u"))
	gt.Error(t, err)

	var statusErr *llm.StatusError
	gt.True(t, errors.As(err, &statusErr))
	gt.Equal(t, statusErr.Code, 500)
	gt.Equal(t, statusErr.Body, "upstream exploded")
	gt.S(t, statusErr.Error()).Contains("500")
}

func TestMalformedResponse(t *testing.T) {
	testCases := map[string]string{
		"no choices":      `{"choices":[]}`,
		"no message":      `{"choices":[{"finish_reason":"stop"}]}`,
		"null content":    `{"choices":[{"message":{"role":"assistant","content":null}}]}`,
		"not json":        `<html>gateway</html>`,
		"missing choices": `{"error":"nope"}`,
	}

	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := newClient(t, server.URL, "k").Complete(context.Background(), llm.NewRequest("s", "u"))
			gt.Error(t, err)
			gt.True(t, errors.Is(err, llm.ErrMalformedResponse))
		})
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newClient(t, url, "k").Complete(context.Background(), llm.NewRequest("s", "u"))
	gt.Error(t, err)

	var statusErr *llm.StatusError
	gt.False(t, errors.As(err, &statusErr))
	gt.False(t, errors.Is(err, llm.ErrMalformedResponse))
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	gt.NoError(t, newClient(t, server.URL, "good").Ping(context.Background()))

	err := newClient(t, server.URL, "bad").Ping(context.Background())
	var statusErr *llm.StatusError
	gt.True(t, errors.As(err, &statusErr))
	gt.Equal(t, statusErr.Code, 401)
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := llm.NewClient(config.Endpoint{Preset: "nope", Model: "m"}, "k", time.Second)
	gt.Error(t, err)

	client, err := llm.NewClient(config.Endpoint{Preset: "github-models", Model: "openai/gpt-4.1"}, "k", time.Second)
	gt.NoError(t, err)
	gt.Equal(t, client.Name(), "github-models")
}
