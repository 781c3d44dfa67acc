// Package app wires configuration into the services shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arturoeanton/codeguard/internal/adapter/ai"
	"github.com/arturoeanton/codeguard/internal/adapter/store"
	"github.com/arturoeanton/codeguard/internal/port"
	"github.com/arturoeanton/codeguard/internal/service"
	"github.com/arturoeanton/codeguard/pkg/config"
)

// App holds the wired services and the resources they own.
type App struct {
	Config   *config.Config
	Audit    *service.AuditService
	Activity *service.ActivityService

	closers []func() error
}

// New builds the completion client, the activity sinks and the services.
// The CSV log is always enabled; Postgres is added when ACTIVITY_DATABASE_URL is set.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	csvLog, err := store.NewCSVActivityLog(cfg.ActivityLogPath)
	if err != nil {
		return nil, fmt.Errorf("activity log: %w", err)
	}
	sinks := []port.ActivitySink{csvLog}

	a := &App{Config: cfg}
	if cfg.ActivityDatabaseURL != "" {
		pg, err := store.NewPostgresActivityStore(ctx, cfg.ActivityDatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("activity database: %w", err)
		}
		sinks = append(sinks, pg)
		a.closers = append(a.closers, pg.Close)
		slog.Info("activity mirror enabled", "sink", pg.Name())
	}

	provider := ai.NewDeepSeekProvider(ai.DeepSeekConfig{
		URL:        cfg.DeepSeekURL,
		Model:      cfg.DeepSeekModel,
		Credential: cfg.Credential,
		Timeout:    cfg.RequestTimeout,
	})

	a.Activity = service.NewActivityService(sinks...)
	a.Audit = service.NewAuditService(provider, a.Activity, cfg.RequestTimeout)
	return a, nil
}

// Close waits for pending activity writes and releases owned resources.
func (a *App) Close() error {
	if a.Activity != nil {
		a.Activity.Wait()
	}
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
