package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/codeguard/internal/domain"
	"github.com/arturoeanton/codeguard/internal/middleware"
	"github.com/arturoeanton/codeguard/internal/port"
	"github.com/arturoeanton/codeguard/internal/service"
	"github.com/arturoeanton/codeguard/pkg/config"
)

const maxActivityLimit = 500

// AuditHandler exposes the audit transaction and activity log over JSON.
type AuditHandler struct {
	cfg      *config.Config
	audit    *service.AuditService
	activity *service.ActivityService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(cfg *config.Config, audit *service.AuditService, activity *service.ActivityService) *AuditHandler {
	return &AuditHandler{cfg: cfg, audit: audit, activity: activity}
}

// Register sets up audit routes.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/status", h.Status)
	router.Get("/languages", h.Languages)
	router.Post("/audit", h.Audit)
	router.Get("/activity", h.ListActivity)
}

// Status reports whether audits can run and how many have been served.
func (h *AuditHandler) Status(c fiber.Ctx) error {
	served, err := h.activity.Served(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	status := "OFFLINE"
	if h.cfg.Online() {
		status = "ONLINE"
	}
	return c.JSON(fiber.Map{
		"status": status,
		"online": h.cfg.Online(),
		"model":  h.audit.ModelName(),
		"served": served,
	})
}

// Languages returns the fixed report languages in display order.
func (h *AuditHandler) Languages(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"languages": domain.TargetLanguages,
		"default":   domain.DefaultLanguage,
	})
}

// Audit runs one transaction for a JSON body {"code": "...", "language": "..."}.
func (h *AuditHandler) Audit(c fiber.Ctx) error {
	var body domain.AuditRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	body.ID = middleware.GetRequestID(c)

	out, code, err := submit(c.Context(), h.cfg, h.audit, body)
	if err != nil {
		return c.Status(code).JSON(fiber.Map{
			"id":     out.ID,
			"status": domain.StatusFailed,
			"error":  service.UserMessage(err),
		})
	}

	return c.JSON(fiber.Map{
		"id":               out.ID,
		"status":           out.Status,
		"language":         out.Language,
		"markdown":         out.Markdown,
		"code_length":      out.CodeLength,
		"duration_seconds": out.Seconds(),
	})
}

// ListActivity returns recent activity records, newest first.
func (h *AuditHandler) ListActivity(c fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	records, err := h.activity.Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	type row struct {
		Time        string `json:"time"`
		Language    string `json:"language"`
		CodeLength  int    `json:"code_length"`
		ProcessTime string `json:"process_time_s"`
		Status      string `json:"status"`
	}
	rows := make([]row, len(records))
	for i, r := range records {
		rows[i] = row{
			Time:        r.Time.Format(domain.ActivityTimeLayout),
			Language:    r.Language,
			CodeLength:  r.CodeLength,
			ProcessTime: domain.FormatSeconds(r.Duration),
			Status:      string(r.Status),
		}
	}

	return c.JSON(fiber.Map{
		"records": rows,
		"count":   len(rows),
	})
}

// submit is the guarded call site shared by the JSON API and the form.
// The credential check happens here, before the transaction is started,
// so an unconfigured server never records an attempt.
func submit(ctx context.Context, cfg *config.Config, audit *service.AuditService, req domain.AuditRequest) (domain.AuditOutcome, int, error) {
	if !cfg.Online() {
		return domain.AuditOutcome{Status: domain.StatusFailed}, fiber.StatusServiceUnavailable, port.ErrNotConfigured
	}

	if req.Language == "" {
		req.Language = domain.DefaultLanguage
	}
	lang, ok := domain.ResolveLanguage(req.Language)
	if !ok {
		return domain.AuditOutcome{Status: domain.StatusFailed}, fiber.StatusBadRequest, port.ErrUnknownLanguage
	}
	req.Language = lang

	out, err := audit.Run(ctx, req)
	switch {
	case err == nil:
		return out, fiber.StatusOK, nil
	case errors.Is(err, port.ErrEmptyCode):
		return out, fiber.StatusBadRequest, err
	case port.IsTransport(err):
		return out, fiber.StatusBadGateway, err
	default:
		return out, fiber.StatusInternalServerError, err
	}
}
