// Package ai implements the generative-language API client behind the
// content endpoints and the shopping assistant.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kalaghar/config"
	apperrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/errors"
)

const maxRetries = 2

// Client calls the generative-language REST API. Implements
// service.TextGenerator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a generative-language API client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.AI.RequestTimeout},
		baseURL:    strings.TrimSuffix(cfg.AI.BaseURL, "/"),
		model:      cfg.AI.Model,
		apiKey:     cfg.AI.APIKey,
		retryDelay: time.Second,
		logger:     logger,
	}
}

// Generate produces a completion for a single prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []service.ChatMessage{{Role: "user", Text: prompt}})
}

// Chat produces the next model turn for a conversation history. An upstream
// 503 is retried up to two extra times with a pause between attempts; any
// other failure is returned immediately.
func (c *Client) Chat(ctx context.Context, messages []service.ChatMessage) (string, error) {
	payload, err := json.Marshal(newGenerateRequest(messages))
	if err != nil {
		return "", errors.Wrap(err, "marshal generate request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	for attempt := 0; ; attempt++ {
		text, retryable, err := c.doRequest(ctx, url, payload)
		if err == nil {
			return text, nil
		}
		if !retryable || attempt >= maxRetries {
			return "", err
		}

		c.logger.WarnContext(ctx, "ai upstream overloaded, retrying",
			slog.Int("attempt", attempt+1))

		select {
		case <-ctx.Done():
			return "", errors.WithStack(ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
}

// doRequest performs one upstream call. retryable is true only for HTTP 503.
func (c *Client) doRequest(ctx context.Context, url string, payload []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", false, errors.Wrap(err, "create generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, errors.Wrap(err, "call generative language api")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, errors.Wrap(err, "read generate response")
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", true, apperrors.ErrAIServiceBusy
	case resp.StatusCode != http.StatusOK:
		return "", false, errors.Errorf("generative language api returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, errors.Wrap(err, "decode generate response")
	}

	text = parsed.text()
	if text == "" {
		return "", false, apperrors.ErrAIInvalidFormat
	}

	return text, false, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func newGenerateRequest(messages []service.ChatMessage) generateRequest {
	contents := make([]content, 0, len(messages))
	for _, msg := range messages {
		contents = append(contents, content{
			Role:  msg.Role,
			Parts: []part{{Text: msg.Text}},
		})
	}

	return generateRequest{Contents: contents}
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	return sb.String()
}
