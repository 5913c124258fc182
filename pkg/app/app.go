package app

import (
	"context"
	"time"

	"github.com/gfarida/financetracker/pkg/db"
	"github.com/gfarida/financetracker/pkg/services"
	"github.com/gfarida/financetracker/pkg/telegram"
	"github.com/gfarida/financetracker/pkg/tracker"

	"github.com/go-pg/pg/v10"
	monitor "github.com/hypnoglow/go-pg-monitor"
	"github.com/labstack/echo/v4"
	"github.com/vmkteam/appkit"
	"github.com/vmkteam/embedlog"
)

type Config struct {
	Database *pg.Options
	Server   struct {
		Host    string
		Port    int
		IsDevel bool
	}
	Telegram struct {
		Token string
		Debug bool
	}
	OpenAI struct {
		APIKey  string
		BaseURL string
		Model   string
	}
	Prometheus struct {
		URL string
	}
}

type App struct {
	embedlog.Logger
	appName string
	cfg     Config
	db      db.DB
	mon     *monitor.Monitor
	echo    *echo.Echo
	tgBot   *telegram.Bot
}

func New(appName string, sl embedlog.Logger, cfg Config, dbc db.DB) (*App, error) {
	a := &App{
		appName: appName,
		cfg:     cfg,
		db:      dbc,
		echo:    appkit.NewEcho(),
		Logger:  sl,
	}

	if cfg.Telegram.Token != "" {
		manager := tracker.NewManager(db.NewStore(dbc), a.classifier(), sl)

		tgBot, err := telegram.New(telegram.Config{
			Token: cfg.Telegram.Token,
			Debug: cfg.Telegram.Debug,
		}, manager, sl)
		if err != nil {
			return nil, err
		}
		a.tgBot = tgBot
	}

	return a, nil
}

// classifier picks the expense classifier: OpenAI when an API key is
// configured, a keyword mock otherwise (local development).
func (a *App) classifier() services.Classifier {
	if a.cfg.OpenAI.APIKey == "" {
		return services.NewMockClassifier(a.Logger)
	}

	return services.NewOpenAIClassifier(services.OpenAIConfig{
		APIKey:  a.cfg.OpenAI.APIKey,
		BaseURL: a.cfg.OpenAI.BaseURL,
		Model:   a.cfg.OpenAI.Model,
	}, a.Logger)
}

// Run is a function that runs application.
func (a *App) Run(ctx context.Context) error {
	a.registerMetrics()
	a.restoreMetrics(ctx)
	a.registerHandlers()
	a.registerDebugHandlers()
	a.registerMetadata()

	// Start Telegram bot if configured
	if a.tgBot != nil {
		go func() {
			if err := a.tgBot.Start(ctx); err != nil {
				a.Error(ctx, "telegram bot error", "err", err)
			}
		}()
	}

	return a.runHTTPServer(ctx, a.cfg.Server.Host, a.cfg.Server.Port)
}

// Shutdown is a function that gracefully stops HTTP server.
func (a *App) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop Telegram bot
	if a.tgBot != nil {
		a.tgBot.Stop(ctx)
	}

	a.mon.Close()

	return a.echo.Shutdown(ctx)
}

// registerMetadata is a function that registers meta info from service.
func (a *App) registerMetadata() {
	services := []appkit.ServiceMetadata{}
	if a.tgBot != nil {
		// Telegram bot runs asynchronously in a separate goroutine
		services = append(services, appkit.NewServiceMetadata("telegram-bot", appkit.MetadataServiceTypeAsync))
	}

	opts := appkit.MetadataOpts{
		HasPublicAPI:  false, // No public API, only Telegram bot
		HasPrivateAPI: false,
		DBs: []appkit.DBMetadata{
			appkit.NewDBMetadata(a.cfg.Database.Database, a.cfg.Database.PoolSize, false),
		},
		Services: services,
	}

	md := appkit.NewMetadataManager(opts)
	md.RegisterMetrics()

	a.echo.GET("/debug/metadata", md.Handler)
}
