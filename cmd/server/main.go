package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dillontadeo/ai-content-pipeline/internal/analyzer"
	"github.com/dillontadeo/ai-content-pipeline/internal/api"
	"github.com/dillontadeo/ai-content-pipeline/internal/config"
	"github.com/dillontadeo/ai-content-pipeline/internal/content"
	"github.com/dillontadeo/ai-content-pipeline/internal/crm"
	"github.com/dillontadeo/ai-content-pipeline/internal/llm"
	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
	"github.com/dillontadeo/ai-content-pipeline/internal/pipeline"
	"github.com/dillontadeo/ai-content-pipeline/internal/storage"
)

func main() {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	store, err := storage.Open(cfg.Database.URL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.InitSchema(ctx); err != nil {
		log.WithError(err).Fatal("failed to initialize schema")
	}

	chat := llm.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	generator := content.NewGenerator(chat, cfg.Personas, cfg.Content)
	crmClient := crm.NewClient(cfg.HubSpot)
	if crmClient.MockMode() {
		log.Warn("HUBSPOT_API_KEY not set, CRM running in mock mode")
	}
	insights := analyzer.NewInsightGenerator(chat)
	sim := analyzer.NewSimulator(time.Now().UnixNano())

	p := pipeline.New(cfg.Personas, generator, crmClient, store, insights, sim)
	server := api.NewServer(p, store)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
