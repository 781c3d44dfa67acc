package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/codeguard/internal/port"
	"github.com/arturoeanton/codeguard/pkg/config"
)

const testKey = "sk-test-0123456789abcdef"

func newTestProvider(t *testing.T, h http.HandlerFunc, timeout time.Duration) (*DeepSeekProvider, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	p := NewDeepSeekProvider(DeepSeekConfig{
		URL:        srv.URL + "/chat/completions",
		Model:      "deepseek-coder",
		Credential: config.NewCredential(testKey),
		Timeout:    timeout,
	})
	return p, &calls
}

func TestComplete_SendsExpectedRequest(t *testing.T) {
	var got chatRequest
	p, calls := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}, time.Second)

	_, err := p.Complete(context.Background(), "audit this")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "deepseek-coder", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "audit this", got.Messages[0].Content)
}

func TestComplete_PassesContentThroughUnchanged(t *testing.T) {
	content := "## 📊 Executive Summary\n- **Security:** 12 | **Performance:** 40\n\n```python\nprint('x')\n```\n  "
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}, time.Second)

	out, err := p.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestComplete_Non2xxIsTransportError(t *testing.T) {
	p, calls := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Insufficient Balance"}}`))
	}, time.Second)

	_, err := p.Complete(context.Background(), "p")
	require.Error(t, err)

	var te *port.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusPaymentRequired, te.StatusCode)
	assert.Contains(t, err.Error(), "Payment Required")
	assert.Contains(t, err.Error(), "Insufficient Balance")
	assert.False(t, te.Timeout())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retry on failure")
}

func TestComplete_MalformedBodies(t *testing.T) {
	cases := map[string]string{
		"not json":        `<html>oops</html>`,
		"no choices":      `{"choices":[]}`,
		"missing message": `{"choices":[{}]}`,
		"missing content": `{"choices":[{"message":{"role":"assistant"}}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}, time.Second)

			_, err := p.Complete(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, port.IsTransport(err))
			assert.ErrorIs(t, err, port.ErrMalformedReply)
		})
	}
}

func TestComplete_EmptyContentIsNotAnError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	}, time.Second)

	out, err := p.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestComplete_TimeoutIsTransportError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	_, err := p.Complete(context.Background(), "p")
	require.Error(t, err)

	var te *port.TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Timeout())
}

func TestComplete_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewDeepSeekProvider(DeepSeekConfig{URL: url, Model: "m", Credential: config.NewCredential(testKey), Timeout: time.Second})
	_, err := p.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, port.IsTransport(err))
}
