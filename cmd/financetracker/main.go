package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gfarida/financetracker/pkg/app"
	"github.com/gfarida/financetracker/pkg/db"

	"github.com/go-pg/pg/v10"
	"github.com/joho/godotenv"
	"github.com/vmkteam/embedlog"
)

const appName = "financetracker"

const shutdownTimeout = 10 * time.Second

var (
	flVerbose = flag.Bool("verbose", false, "enable debug output")
	flJSON    = flag.Bool("json", false, "enable json output")
)

func main() {
	flag.Parse()

	// local development convenience, missing file is fine
	_ = godotenv.Load()

	sl := embedlog.NewLogger(*flVerbose, *flJSON)
	ctx, cancel := context.WithCancel(context.Background())

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dbc := db.New(pg.Connect(cfg.Database))
	if err := dbc.Ping(ctx); err != nil {
		log.Fatalf("db connection: %v", err)
	}

	if err := dbc.ApplyMigrations(ctx); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	a, err := app.New(appName, sl, cfg, dbc)
	if err != nil {
		log.Fatalf("app init: %v", err)
	}

	// graceful shutdown on SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()

		if err := a.Shutdown(shutdownTimeout); err != nil {
			sl.Error(context.Background(), "shutdown failed", "err", err)
		}
	}()

	if err := a.Run(ctx); err != nil {
		sl.Error(ctx, "application stopped", "err", err)
	}
}
