package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"edumeet/internal/adapters/postgres"
	"edumeet/internal/adapters/s3"
	"edumeet/internal/adapters/smtp"
	"edumeet/internal/config"
	"edumeet/internal/core/auth"
	"edumeet/internal/core/event"
	"edumeet/internal/core/user"
	"edumeet/internal/logger"
	"edumeet/internal/transport/rest"
	"edumeet/internal/transport/ws"
	"edumeet/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.JWTSecret == "" {
		panic("FATAL: JWT_SECRET is mandatory for Server!")
	}

	dbPool, err := postgres.InitDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to init DB", "error", err)
		return
	}
	defer dbPool.Close()

	blobStore, err := s3.NewStore(ctx, cfg)
	if err != nil {
		log.Error("failed to init blob store", "error", err)
		return
	}
	mailer := smtp.NewMailer(cfg)

	userRepo := postgres.NewUserRepository(dbPool)
	eventRepo := postgres.NewEventRepository(dbPool)

	hub := ws.NewHub(ctx, log)
	go hub.Run()

	authService := auth.NewService(userRepo, mailer, cfg.JWTSecret, cfg.JWTExpiry, cfg.ResetTokenExpiry, cfg.ResetURL)
	eventService := event.NewService(eventRepo, blobStore, hub, log)
	userService := user.NewService(userRepo)

	wsHandler := ws.NewWebHandler(hub, authService, log, cfg.AllowedOrigins)

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		Auth:  rest.NewAuthHandler(authService, cfg),
		Event: rest.NewEventHandler(eventService),
		User:  rest.NewUserHandler(userService),
		Ws:    wsHandler,

		Verifier: authService,
	})

	workerManager := workers.NewManager(cfg, log, workers.NewScheduler(log), eventRepo, mailer)
	workerManager.Start(ctx)

	srv := rest.NewServer(router, cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http: starting server", "address", cfg.Address)
		errCh <- srv.ListenAndServe()
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http: server shutdown error", "error", err)
		}

	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("http: server error", "error", err)
		}
	}

	log.Info("server stopped")
}
