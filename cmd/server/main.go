package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fatcat-backend/internal/config"
	"fatcat-backend/internal/handlers"
	"fatcat-backend/internal/router"
	"fatcat-backend/internal/services"
)

func main() {
	log.Println("🐱 Starting Fat Cat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Gemini Client ────
	// A missing key is not fatal at startup; turns answer 500 until it is set.
	geminiService := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.ChatModel,
		cfg.TTSModel,
		cfg.TTSVoice,
		cfg.GeminiConcurrentReqs,
	)
	if cfg.GeminiAPIKey == "" {
		log.Println("✗ GEMINI_API_KEY is not set; chat and voice turns will fail")
	} else {
		log.Println("✓ Gemini client initialized")
	}

	// ──── Step 3: Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(
		geminiService,
		services.NewBudgetClassifier(cfg.CasualSentences, cfg.InformativeSentences),
		cfg.HistoryWindow,
		cfg.MaxMessageChars,
	)
	voiceHandler := handlers.NewVoiceHandler(
		geminiService,
		services.FixedBudget(cfg.CasualSentences),
		cfg.HistoryWindow,
		cfg.MaxAudioBytes,
	)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(chatHandler, voiceHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Fat Cat Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat:  http://localhost:%s/api/chat", cfg.Port)
	log.Printf("  Voice: http://localhost:%s/api/voice", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
