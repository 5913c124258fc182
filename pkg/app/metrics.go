package app

import (
	"context"
	"fmt"

	"github.com/gfarida/financetracker/pkg/services"
	"github.com/gfarida/financetracker/pkg/telegram"

	monitor "github.com/hypnoglow/go-pg-monitor"
	"github.com/hypnoglow/go-pg-monitor/gopgv10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vmkteam/appkit"
)

// registerMetrics is a function that initializes metrics and adds /metrics endpoint to echo.
// This endpoint exposes:
// - HTTP metrics (via appkit.HTTPMetrics)
// - Database connection metrics (via go-pg-monitor)
// - Bot metrics (auto-registered via promauto in pkg/telegram/metrics.go)
func (a *App) registerMetrics() {
	// add db conn metrics
	dbMetrics := monitor.NewMetrics(monitor.MetricsWithConstLabels(prometheus.Labels{"connection_name": "default"}))
	dbOpts := a.db.Options()
	a.mon = monitor.NewMonitor(
		gopgv10.NewObserver(a.db.DB),
		dbMetrics,
		monitor.MonitorWithPoolName(fmt.Sprintf("%s/%s", dbOpts.Addr, dbOpts.Database)),
	)
	a.mon.Open()

	// Add HTTP metrics middleware
	a.echo.Use(appkit.HTTPMetrics(appkit.DefaultServerName))

	// Expose all metrics via /metrics endpoint
	a.echo.Any("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// restoreMetrics replays counter totals from Prometheus after a restart.
// Best effort: a missing or unreachable Prometheus only logs a warning.
func (a *App) restoreMetrics(ctx context.Context) {
	if a.cfg.Prometheus.URL == "" {
		return
	}

	client, err := services.NewPrometheusClient(a.cfg.Prometheus.URL, a.Logger)
	if err != nil {
		a.Error(ctx, "failed to create prometheus client", "err", err)
		return
	}

	if err := client.CheckHealth(ctx); err != nil {
		a.Error(ctx, "prometheus is not reachable, skipping restore", "err", err, "url", a.cfg.Prometheus.URL)
		return
	}

	snapshot, err := client.RestoreMetrics(ctx)
	if err != nil {
		a.Error(ctx, "failed to restore metrics", "err", err, "url", a.cfg.Prometheus.URL)
		return
	}

	telegram.RestoreCounters(snapshot)
	a.Print(ctx, "metrics restored",
		"commands", len(snapshot.CommandsProcessed),
		"expenses", snapshot.ExpensesRecorded,
		"budgets", snapshot.BudgetsSet,
	)
}
