package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dillontadeo/ai-content-pipeline/internal/analyzer"
	"github.com/dillontadeo/ai-content-pipeline/internal/export"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: "success", Data: data}); err != nil {
		s.log.WithError(err).Error("encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Status: "error", Message: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{
		"service": "ai-content-pipeline",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.store.GetAllCampaigns(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list campaigns")
		s.respondError(w, http.StatusInternalServerError, "failed to load campaigns")
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"campaigns": campaigns,
		"count":     len(campaigns),
	})
}

// personaPerformance pairs one segment's metrics with its benchmark standing.
type personaPerformance struct {
	types.PersonaRecord
	Benchmark types.Comparison `json:"benchmark_comparison"`
}

func (s *Server) handleCampaignDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	records, err := s.store.GetCampaignPerformance(r.Context(), id)
	if err != nil {
		s.log.WithError(err).WithField("campaign_id", id).Error("campaign detail")
		s.respondError(w, http.StatusInternalServerError, "failed to load campaign performance")
		return
	}
	if len(records) == 0 {
		s.respondError(w, http.StatusNotFound, "campaign not found")
		return
	}

	out := make([]personaPerformance, 0, len(records))
	for _, rec := range records {
		out = append(out, personaPerformance{
			PersonaRecord: rec,
			Benchmark:     analyzer.CompareToBenchmarks(rec.CampaignMetrics, types.DefaultBenchmarks),
		})
	}
	s.respond(w, http.StatusOK, map[string]any{"campaign_id": id, "performance": out})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	content, err := s.store.GetContent(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		s.respondError(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("content_id", id).Error("get content")
		s.respondError(w, http.StatusInternalServerError, "failed to load content")
		return
	}

	newsletters, err := s.store.GetNewslettersForContent(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("get newsletters")
		s.respondError(w, http.StatusInternalServerError, "failed to load newsletters")
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"content":     content,
		"newsletters": newsletters,
	})
}

type overview struct {
	TotalCampaigns     int                `json:"total_campaigns"`
	TotalSent          int                `json:"total_sent"`
	TotalOpens         int                `json:"total_opens"`
	TotalClicks        int                `json:"total_clicks"`
	OverallOpenRate    float64            `json:"overall_open_rate"`
	OverallClickRate   float64            `json:"overall_click_rate"`
	AvgEngagementScore float64            `json:"avg_engagement_score"`
	ByPersona          map[string]average `json:"by_persona"`
}

type average struct {
	Campaigns          int     `json:"campaigns"`
	AvgOpenRate        float64 `json:"avg_open_rate"`
	AvgClickRate       float64 `json:"avg_click_rate"`
	AvgEngagementScore float64 `json:"avg_engagement_score"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.GetHistoricalPerformance(r.Context(), historyWindow)
	if err != nil {
		s.log.WithError(err).Error("analytics overview")
		s.respondError(w, http.StatusInternalServerError, "failed to load performance history")
		return
	}
	s.respond(w, http.StatusOK, buildOverview(history))
}

func buildOverview(history []types.HistoryEntry) overview {
	o := overview{ByPersona: map[string]average{}}
	sums := map[string]*average{}
	var scoreSum float64

	for _, h := range history {
		o.TotalCampaigns++
		o.TotalSent += h.ContactsSent
		o.TotalOpens += h.Opens
		o.TotalClicks += h.Clicks
		scoreSum += h.EngagementScore

		agg, ok := sums[h.Persona]
		if !ok {
			agg = &average{}
			sums[h.Persona] = agg
		}
		agg.Campaigns++
		agg.AvgOpenRate += h.OpenRate
		agg.AvgClickRate += h.ClickRate
		agg.AvgEngagementScore += h.EngagementScore
	}

	if o.TotalSent > 0 {
		o.OverallOpenRate = float64(o.TotalOpens) / float64(o.TotalSent)
		o.OverallClickRate = float64(o.TotalClicks) / float64(o.TotalSent)
	}
	if o.TotalCampaigns > 0 {
		o.AvgEngagementScore = scoreSum / float64(o.TotalCampaigns)
	}

	for persona, agg := range sums {
		n := float64(agg.Campaigns)
		o.ByPersona[persona] = average{
			Campaigns:          agg.Campaigns,
			AvgOpenRate:        agg.AvgOpenRate / n,
			AvgClickRate:       agg.AvgClickRate / n,
			AvgEngagementScore: agg.AvgEngagementScore / n,
		}
	}
	return o
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	analysis, err := s.runner.AnalyzeHistoricalTrends(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("trend analysis")
		s.respondError(w, http.StatusInternalServerError, "failed to analyze trends")
		return
	}
	s.respond(w, http.StatusOK, analysis)
}

func (s *Server) handleTopicSuggestions(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", 3)
	topics, err := s.runner.SuggestNextTopics(r.Context(), historyWindow, count)
	if err != nil {
		s.log.WithError(err).Error("topic suggestions")
		s.respondError(w, http.StatusInternalServerError, "failed to suggest topics")
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"topics": topics})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.GetHistoricalPerformance(r.Context(), historyWindow)
	if err != nil {
		s.log.WithError(err).Error("export history")
		s.respondError(w, http.StatusInternalServerError, "failed to load performance history")
		return
	}

	filename := "campaign-performance-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WritePerformanceReport(w, history); err != nil {
		s.log.WithError(err).Error("write workbook")
	}
}

type runRequest struct {
	Topic    string `json:"topic"`
	TestMode *bool  `json:"test_mode,omitempty"`
}

func (s *Server) handleRunPipeline(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRunRequest(w, r)
	if !ok {
		return
	}

	testMode := true
	if req.TestMode != nil {
		testMode = *req.TestMode
	}

	result, err := s.runner.RunFull(r.Context(), req.Topic, testMode)
	if err != nil {
		s.log.WithError(err).WithField("topic", req.Topic).Error("pipeline run")
		s.respondError(w, http.StatusInternalServerError, "pipeline run failed: "+err.Error())
		return
	}
	s.respond(w, http.StatusOK, result)
}

func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRunRequest(w, r)
	if !ok {
		return
	}

	result, err := s.runner.GenerateContentOnly(r.Context(), req.Topic)
	if err != nil {
		s.log.WithError(err).WithField("topic", req.Topic).Error("content generation")
		s.respondError(w, http.StatusInternalServerError, "content generation failed: "+err.Error())
		return
	}
	s.respond(w, http.StatusOK, result)
}

func (s *Server) decodeRunRequest(w http.ResponseWriter, r *http.Request) (runRequest, bool) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return runRequest{}, false
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		s.respondError(w, http.StatusBadRequest, "topic is required")
		return runRequest{}, false
	}
	return req, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
