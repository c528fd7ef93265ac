package ai

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/config"
	apperrors "kalaghar/internal/domain/errors"
)

func newTestClient(t *testing.T, upstream http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.AI = &config.AIConfig{
		APIKey:         "test-key",
		Model:          "gemini-1.5-flash",
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	}

	client := NewClient(cfg, slog.New(slog.DiscardHandler))
	client.retryDelay = time.Millisecond

	return client
}

func generateBody(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}

	return out + `"`
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "models/gemini-1.5-flash")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(generateBody("a handwoven treasure")))
	})

	text, err := client.Generate(context.Background(), "describe this scarf")
	require.NoError(t, err)
	assert.Equal(t, "a handwoven treasure", text)
}

func TestGenerateRetriesOn503(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}
		_, _ = w.Write([]byte(generateBody("finally")))
	})

	text, err := client.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "finally", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateGivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrAIServiceBusy)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateOtherErrorsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrAIServiceBusy)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateEmptyCandidates(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrAIInvalidFormat)
}
