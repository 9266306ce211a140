package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/workoutlog/internal/adapter/driven/googleauth"
	"github.com/ericfisherdev/workoutlog/internal/adapter/driven/googlesheets"
	"github.com/ericfisherdev/workoutlog/internal/adapter/driven/memstore"
	sqliteadapter "github.com/ericfisherdev/workoutlog/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/workoutlog/internal/adapter/driving/http"
	"github.com/ericfisherdev/workoutlog/internal/application"
	"github.com/ericfisherdev/workoutlog/internal/config"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"redirect_uri", cfg.GoogleRedirectURI,
		"frontend_url", cfg.FrontendURL,
		"session_db", cfg.SessionDBPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Pick the session store: persistent sqlite when configured, otherwise
	// in-memory (sessions are lost on restart, matching the default scope).
	var sessions driven.SessionStore
	if cfg.SessionDBPath != "" {
		db, err := sqliteadapter.NewDB(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing session database", "error", closeErr)
			}
		}()

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			return err
		}

		repo, err := sqliteadapter.NewSessionRepo(db, cfg.SecretKey)
		if err != nil {
			return err
		}
		sessions = repo
		slog.Info("sqlite session store opened", "path", cfg.SessionDBPath)
	} else {
		sessions = memstore.New()
		slog.Info("in-memory session store active, sessions will not survive a restart")
	}

	// 4. Wire adapters and services.
	oauthCfg := googleauth.NewConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	authSvc := application.NewAuthService(googleauth.New(oauthCfg), sessions, slog.Default())
	workoutSvc := application.NewWorkoutService(googlesheets.NewClient(oauthCfg), slog.Default())

	// 5. Create HTTP handler and server.
	handler := httphandler.NewHandler(authSvc, workoutSvc, sessions, cfg.FrontendURL, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(handler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 6. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
