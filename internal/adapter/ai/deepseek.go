package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arturoeanton/codeguard/internal/port"
	"github.com/arturoeanton/codeguard/pkg/config"
)

// maxErrorBody caps how much of a failed response body ends up in the error text.
const maxErrorBody = 512

// DeepSeekConfig holds the configuration for the chat-completions endpoint.
type DeepSeekConfig struct {
	URL        string            // full endpoint, e.g. https://api.deepseek.com/chat/completions
	Model      string            // e.g. deepseek-coder
	Credential config.Credential // bearer token
	Timeout    time.Duration     // per-request cap; zero means no client-side limit
}

// DeepSeekProvider implements port.Completer against an OpenAI-compatible
// chat-completions API.
type DeepSeekProvider struct {
	cfg        DeepSeekConfig
	httpClient *http.Client
}

// NewDeepSeekProvider creates a provider with its own HTTP client.
func NewDeepSeekProvider(cfg DeepSeekConfig) *DeepSeekProvider {
	return &DeepSeekProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ModelName returns the chat model identifier.
func (d *DeepSeekProvider) ModelName() string {
	return d.cfg.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as one user message with streaming disabled and
// returns choices[0].message.content as-is.
func (d *DeepSeekProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:    d.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}

	body, err := d.post(ctx, payload)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &port.TransportError{Op: "deepseek decode", Err: fmt.Errorf("%w: %v", port.ErrMalformedReply, err)}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", &port.TransportError{Op: "deepseek decode", Err: fmt.Errorf("%w: no choices[0].message.content", port.ErrMalformedReply)}
	}

	return *resp.Choices[0].Message.Content, nil
}

// post issues the single POST and returns the body of a 2xx response.
func (d *DeepSeekProvider) post(ctx context.Context, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, &port.TransportError{Op: "deepseek request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.cfg.Credential.Token())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &port.TransportError{Op: "deepseek chat", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := http.StatusText(resp.StatusCode)
		if s := strings.TrimSpace(string(snippet)); s != "" {
			msg += ": " + s
		}
		return nil, &port.TransportError{
			Op:         "deepseek chat",
			StatusCode: resp.StatusCode,
			Err:        errors.New(msg),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &port.TransportError{Op: "deepseek read", StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}
