package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/logging"
)

// maxErrorBody bounds how much of an error reply is kept
const maxErrorBody = 4 << 10

// Client talks to any OpenAI-compatible /chat/completions endpoint
type Client struct {
	name       string
	token      string
	baseURL    string
	endpoint   config.Endpoint
	httpClient *http.Client
}

func NewClient(ep config.Endpoint, token string, timeout time.Duration) (*Client, error) {
	baseURL, err := ep.URL()
	if err != nil {
		return nil, err
	}
	return &Client{
		name:     ep.Name(),
		token:    token,
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: ep,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create ping request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "cannot connect to endpoint", goerr.V("endpoint", c.name), goerr.V("url", c.baseURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	return nil
}

func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	apiReq := c.payload(req)

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal completion request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create completion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, goerr.Wrap(err, "completion request failed", goerr.V("endpoint", c.name))
	}
	defer resp.Body.Close()

	logging.From(ctx).Debug("completion response",
		"endpoint", c.name,
		"model", apiReq.Model,
		"status", resp.StatusCode,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(resp)
	}

	var apiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, goerr.Wrap(ErrMalformedResponse, "failed to decode completion response",
			goerr.V("endpoint", c.name), goerr.V("cause", err.Error()))
	}

	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message == nil || apiResp.Choices[0].Message.Content == nil {
		return nil, goerr.Wrap(ErrMalformedResponse, "no message content in completion response",
			goerr.V("endpoint", c.name))
	}

	model := apiResp.Model
	if model == "" {
		model = apiReq.Model
	}

	return &CompletionResponse{
		Content:      *apiResp.Choices[0].Message.Content,
		Model:        model,
		FinishReason: apiResp.Choices[0].FinishReason,
		Usage: Usage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		},
	}, nil
}

func (c *Client) payload(req *CompletionRequest) openAIRequest {
	apiReq := openAIRequest{
		Model:       req.Model,
		Messages:    toOpenAIMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: c.endpoint.Temperature,
		TopP:        c.endpoint.TopP,
	}
	if apiReq.Model == "" {
		apiReq.Model = c.endpoint.Model
	}
	if apiReq.MaxTokens == 0 {
		apiReq.MaxTokens = c.endpoint.MaxTokens
	}
	if req.Temperature != nil {
		apiReq.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		apiReq.TopP = *req.TopP
	}
	return apiReq
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Endpoint: c.name,
		Code:     resp.StatusCode,
		Body:     strings.TrimSpace(string(body)),
	}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message *struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func toOpenAIMessages(msgs []Message) []openAIMessage {
	out := make([]openAIMessage, len(msgs))
	for i, m := range msgs {
		out[i] = openAIMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
