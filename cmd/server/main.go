package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lingo-backend/internal/chat"
	"lingo-backend/internal/config"
	"lingo-backend/internal/handlers"
	"lingo-backend/internal/logger"
	"lingo-backend/internal/middleware"
	"lingo-backend/internal/relay"
	"lingo-backend/internal/router"
	"lingo-backend/internal/session"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()
	log.Info("starting lingo backend", zap.String("env", cfg.Env))

	// ──── Step 2: Initialize Gemini Client ────
	generator, err := relay.NewGeminiGenerator(
		context.Background(),
		cfg.GoogleAPIKey,
		cfg.GeminiModel,
		cfg.GeminiConcurrentReqs,
		log,
	)
	if err != nil {
		log.Fatal("Gemini client initialization failed", zap.Error(err))
	}
	log.Info("Gemini client initialized",
		zap.String("model", cfg.GeminiModel),
		zap.Float32("temperature", cfg.GeminiTemperature),
	)

	relayService := relay.NewService(generator, log)

	// ──── Step 3: Sessions ────
	registry := session.NewRegistry(
		chat.NewLocalTransport(relayService, cfg.SystemInstruction, cfg.GeminiTemperature),
		cfg.SessionIdleTimeout,
		log,
	)
	registry.Start()

	// ──── Step 4: Handlers ────
	chatHandler := handlers.NewChatHandler(relayService, cfg.SystemInstruction, cfg.GeminiTemperature, log)
	sessionHandler := handlers.NewSessionHandler(registry, log)
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, time.Minute, log)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(chatHandler, sessionHandler, chatLimiter, cfg.StaticDir, cfg.CORSOrigin, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		registry.Stop()
		chatLimiter.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info("server ready", zap.String("url", fmt.Sprintf("http://localhost:%s", cfg.Port)))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
