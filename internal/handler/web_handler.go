package handler

import (
	"bytes"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/codeguard/internal/domain"
	"github.com/arturoeanton/codeguard/internal/middleware"
	"github.com/arturoeanton/codeguard/internal/service"
	"github.com/arturoeanton/codeguard/internal/web"
	"github.com/arturoeanton/codeguard/pkg/config"
)

// WebHandler serves the browser form.
type WebHandler struct {
	cfg      *config.Config
	audit    *service.AuditService
	activity *service.ActivityService
}

// NewWebHandler creates a new web handler.
func NewWebHandler(cfg *config.Config, audit *service.AuditService, activity *service.ActivityService) *WebHandler {
	return &WebHandler{cfg: cfg, audit: audit, activity: activity}
}

// Register sets up page routes.
func (h *WebHandler) Register(router fiber.Router) {
	router.Get("/", h.Index)
	router.Post("/audit", h.Submit)
}

// Index renders the empty form.
func (h *WebHandler) Index(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, web.Page{Selected: domain.DefaultLanguage})
}

// Submit handles the form post and renders the result on the same page.
func (h *WebHandler) Submit(c fiber.Ctx) error {
	req := domain.AuditRequest{
		ID:       middleware.GetRequestID(c),
		Code:     c.FormValue("code"),
		Language: c.FormValue("language"),
	}

	out, code, err := submit(c.Context(), h.cfg, h.audit, req)

	p := web.Page{Selected: req.Language, Code: req.Code}
	if lang, ok := domain.ResolveLanguage(req.Language); ok {
		p.Selected = lang
	}
	if err != nil {
		p.Message = service.UserMessage(err)
	} else {
		p.Outcome = &out
	}
	return h.render(c, code, p)
}

func (h *WebHandler) render(c fiber.Ctx, status int, p web.Page) error {
	served, err := h.activity.Served(c.Context())
	if err != nil {
		slog.Warn("count activity failed", "error", err)
	}
	p.AppName = h.cfg.AppName
	p.Online = h.cfg.Online()
	p.Model = h.audit.ModelName()
	p.Served = served
	p.Languages = domain.TargetLanguages
	if p.Selected == "" {
		p.Selected = domain.DefaultLanguage
	}

	var buf bytes.Buffer
	if err := web.Render(&buf, p); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render page: " + err.Error())
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
