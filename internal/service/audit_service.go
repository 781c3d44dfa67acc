package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arturoeanton/codeguard/internal/domain"
	"github.com/arturoeanton/codeguard/internal/port"
)

// AuditService runs audit transactions against the completion backend.
type AuditService struct {
	ai       port.Completer
	activity *ActivityService
	timeout  time.Duration
	now      func() time.Time
}

// NewAuditService creates an audit service. A zero timeout leaves the call bounded
// only by ctx and the HTTP client.
func NewAuditService(ai port.Completer, activity *ActivityService, timeout time.Duration) *AuditService {
	return &AuditService{
		ai:       ai,
		activity: activity,
		timeout:  timeout,
		now:      time.Now,
	}
}

// ModelName returns the backend model identifier.
func (s *AuditService) ModelName() string {
	return s.ai.ModelName()
}

// Audit builds the audit prompt and makes exactly one completion call.
// The reply is returned unmodified. Callers must check the credential first.
func (s *AuditService) Audit(ctx context.Context, code, language string) (string, error) {
	if code == "" {
		return "", port.ErrEmptyCode
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.ai.Complete(ctx, BuildAuditPrompt(code, language))
	if err != nil {
		if !port.IsTransport(err) {
			err = &port.TransportError{Op: "audit", Err: err}
		}
		return "", err
	}
	return result, nil
}

// Run performs one transaction: it times Audit, records the outcome in the
// activity log and returns it for display. Empty submissions are rejected
// before any call and are not logged.
func (s *AuditService) Run(ctx context.Context, req domain.AuditRequest) (domain.AuditOutcome, error) {
	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	out := domain.AuditOutcome{
		ID:         id,
		Language:   req.Language,
		CodeLength: req.CodeLength(),
	}
	if req.Code == "" {
		out.Status = domain.StatusFailed
		out.Error = port.ErrEmptyCode.Error()
		return out, port.ErrEmptyCode
	}

	slog.Info("audit started", "id", out.ID, "language", req.Language, "code_length", out.CodeLength, "model", s.ai.ModelName())

	start := s.now()
	result, err := s.Audit(ctx, req.Code, req.Language)
	out.Duration = s.now().Sub(start)
	if out.Duration < 0 {
		out.Duration = 0
	}

	if err != nil {
		out.Status = domain.StatusFailed
		out.Error = err.Error()
		slog.Error("audit failed", "id", out.ID, "duration", out.Seconds(), "error", err)
	} else {
		out.Status = domain.StatusSuccess
		out.Markdown = result
		slog.Info("audit complete", "id", out.ID, "duration", out.Seconds())
	}

	if s.activity != nil {
		s.activity.LogActivity(ctx, req.Language, out.Status, out.CodeLength, out.Duration)
	}

	if err != nil {
		return out, fmt.Errorf("audit %s: %w", out.ID, err)
	}
	return out, nil
}

// UserMessage renders err the way the display layer shows it.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, port.ErrEmptyCode):
		return port.ErrEmptyCode.Error()
	case errors.Is(err, port.ErrUnknownLanguage):
		return port.ErrUnknownLanguage.Error()
	case errors.Is(err, port.ErrNotConfigured):
		return "❌ ERROR: " + port.ErrNotConfigured.Error()
	default:
		var te *port.TransportError
		if errors.As(err, &te) {
			if te.Timeout() {
				return "System Error: request timed out: " + te.Error()
			}
			return "System Error: " + te.Error()
		}
		return "System Error: " + err.Error()
	}
}
