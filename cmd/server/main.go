package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"notielf/internal/auth"
	"notielf/internal/config"
	"notielf/internal/handler"
	"notielf/internal/middleware"
	"notielf/internal/repository/postgres"
	"notielf/internal/resource"
	"notielf/internal/security"
	"notielf/internal/service"
	"notielf/migrations"
)

func main() {
	// Missing .env is fine in deployed environments; config falls back to
	// real environment variables.
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		return err
	}
	defer verifier.Close()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.Up(ctx, cfg.DatabaseURL); err != nil {
		return err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	txManager := postgres.NewTransactionManager(pool)

	inviteRepo := postgres.NewInviteRepository(repoConfig)
	hierarchyRepo := postgres.NewHierarchyRepository(repoConfig)
	documentRepo := postgres.NewDocumentRepository(repoConfig)

	inviteService := service.NewInviteService(inviteRepo, txManager, logger)
	treeService := service.NewTreeService(hierarchyRepo, documentRepo, logger)

	// Hooks, actions and select functions register first; loading the
	// resource config then binds every referenced name, so a typo in
	// config.yaml stops the server here instead of serving unscoped.
	registry := resource.NewRegistry()
	security.NewHooks(pool, tables, logger).Register(registry)
	service.RegisterActions(registry, inviteService, treeService)
	service.RegisterSelectFuncs(registry, treeService)

	resources, err := resource.LoadDefault(cfg.TablePrefix, registry)
	if err != nil {
		return err
	}

	dispatcher := resource.NewDispatcher(pool, txManager, resources, cfg.QueryTimeout, logger)
	scripts := handler.NewScriptsHandler(inviteService, treeService, logger)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", dispatcher))
	scripts.RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.TenantHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	var root http.Handler = mux
	root = middleware.Auth(verifier)(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestID()(root)
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
