// Command server runs the complaint platform REST API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	app "github.com/resolvedesk/resolvedesk/internal/app"
	"github.com/resolvedesk/resolvedesk/internal/app/httpapi"
	"github.com/resolvedesk/resolvedesk/internal/app/storage/postgres"
	"github.com/resolvedesk/resolvedesk/internal/config"
	"github.com/resolvedesk/resolvedesk/internal/database"
	"github.com/resolvedesk/resolvedesk/internal/metrics"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

func main() {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: "server",
	})

	if cfg.Production() && cfg.JWTSecret == "dev-secret" {
		log.Error("JWT_SECRET must be set in production")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stores app.Stores
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, database.Options{
			URL:          cfg.DatabaseURL,
			WaitForReady: cfg.DatabaseWait,
		}, log)
		if err != nil {
			log.WithError(err).Error("database initialisation failed")
			os.Exit(1)
		}
		defer db.Close()

		pg := postgres.New(db)
		stores = app.Stores{
			Organizations:  pg,
			Departments:    pg,
			Users:          pg,
			ComplaintTypes: pg,
			Complaints:     pg,
			Workflows:      pg,
			Notifications:  pg,
			Feedback:       pg,
			Sessions:       pg,
		}
		log.Info("using PostgreSQL storage")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory storage")
	}

	application, err := app.New(stores, app.Options{
		JWTSecret:          []byte(cfg.JWTSecret),
		TokenTTL:           time.Duration(cfg.TokenTTLHours) * time.Hour,
		UploadsDir:         cfg.UploadsDir,
		EscalationSchedule: cfg.EscalationSchedule,
	}, log)
	if err != nil {
		log.WithError(err).Error("application initialisation failed")
		os.Exit(1)
	}

	if err := application.Start(ctx); err != nil {
		log.WithError(err).Error("application start failed")
		os.Exit(1)
	}

	m := metrics.New("server")
	router := httpapi.NewRouter(application, httpapi.Options{
		FrontendURL:        cfg.FrontendURL,
		BodyLimit:          cfg.BodyLimit,
		UploadsDir:         cfg.UploadsDir,
		StaticDir:          cfg.StaticDir,
		JWTSecret:          []byte(cfg.JWTSecret),
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}, m, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("application stop incomplete")
	}
	log.Info("shutdown complete")
}
