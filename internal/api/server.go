// Package api exposes the dashboard and pipeline endpoints over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
	"github.com/dillontadeo/ai-content-pipeline/internal/pipeline"
	"github.com/dillontadeo/ai-content-pipeline/internal/storage"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

// Runner is the pipeline surface the API drives.
type Runner interface {
	RunFull(ctx context.Context, topic string, testMode bool) (pipeline.Result, error)
	GenerateContentOnly(ctx context.Context, topic string) (pipeline.ContentResult, error)
	AnalyzeHistoricalTrends(ctx context.Context, limit int) (types.TrendAnalysis, error)
	SuggestNextTopics(ctx context.Context, limit, numSuggestions int) ([]string, error)
}

// Store is the read side used by the dashboard endpoints.
type Store interface {
	GetAllCampaigns(ctx context.Context) ([]storage.Campaign, error)
	GetCampaignPerformance(ctx context.Context, campaignID int64) ([]types.PersonaRecord, error)
	GetContent(ctx context.Context, id int64) (storage.Content, error)
	GetNewslettersForContent(ctx context.Context, contentID int64) ([]storage.NewsletterRow, error)
	GetHistoricalPerformance(ctx context.Context, limit int) ([]types.HistoryEntry, error)
}

// historyWindow bounds dashboard reads over campaign history.
const historyWindow = 500

type Server struct {
	runner Runner
	store  Store
	log    *logrus.Entry
}

func NewServer(runner Runner, store Store) *Server {
	return &Server{
		runner: runner,
		store:  store,
		log:    logger.Component("api"),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/campaigns", s.handleListCampaigns)
		r.Get("/campaigns/{id}", s.handleCampaignDetail)
		r.Get("/content/{id}", s.handleContent)
		r.Get("/analytics/overview", s.handleOverview)
		r.Get("/trends", s.handleTrends)
		r.Get("/topics/suggestions", s.handleTopicSuggestions)
		r.Get("/export/performance", s.handleExport)
		r.Post("/pipeline/run", s.handleRunPipeline)
		r.Post("/pipeline/generate", s.handleGenerateContent)
	})

	return r
}
