package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/triage/internal/config"
	"github.com/me/triage/internal/logging"
	"github.com/me/triage/internal/scheduler"
	"github.com/me/triage/internal/seed"
	"github.com/me/triage/internal/server"
	"github.com/me/triage/internal/store"
	"github.com/me/triage/pkg/model"
	flag "github.com/spf13/pflag"
)

func main() {
	cfg := config.DefaultServerConfig()

	// The config file is read before the other flags are applied so that
	// command-line values win.
	configFile := configPath(os.Args[1:])
	if configFile != "" {
		if err := config.LoadFile(configFile, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	flag.String("config", configFile, "Path to a YAML server config file")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (:memory: for an in-process catalog)")
	flag.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "YAML file with the email catalog (default: built-in sample data)")
	flag.DurationVar(&cfg.Processing.Cadence, "cadence", cfg.Processing.Cadence, "How often the queue looks for the next email")
	flag.DurationVar(&cfg.Processing.Duration, "processing-time", cfg.Processing.Duration, "How long one email stays in flight")
	flag.BoolVar(&cfg.Processing.AutoStart, "auto-start", cfg.Processing.AutoStart, "Start processing as soon as the server is up")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", cfg.DBPath)

	data, err := loadSeed(cfg.SeedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load seed: %v\n", err)
		os.Exit(1)
	}
	if err := seed.Apply(ctx, st, data); err != nil {
		fmt.Fprintf(os.Stderr, "apply seed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("catalog seeded", "emails", len(data.Emails), "volume_points", len(data.Volume))

	queueable, err := st.ListQueueable(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load queue: %v\n", err)
		os.Exit(1)
	}

	engine := scheduler.New(model.WorkItems(queueable), scheduler.Config{
		Cadence:        cfg.Processing.Cadence,
		ProcessingTime: cfg.Processing.Duration,
	}, logger)
	if cfg.Processing.AutoStart {
		engine.Start()
	}

	srv := server.New(cfg, st, engine, logger, server.WithVolume(data.Volume))

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}
	httpServer.RegisterOnShutdown(srv.Close)

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	logger.Info("shutting down")

	// Stop the queue, then the HTTP server. Shutdown runs srv.Close, which
	// ends open SSE streams with a "closed" event.
	engine.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// configPath finds --config in args without parsing the rest.
func configPath(args []string) string {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func loadSeed(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.LoadFile(path)
}
