package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

// ChatClient is the narrative-generation collaborator. Implemented by llm.Client.
type ChatClient interface {
	ChatJSON(ctx context.Context, system, user string, temperature float64) ([]byte, error)
}

// InsightGenerator composes the numeric analysis with an AI narrative. It is
// the only part of the analyzer that can fail: an unreachable gateway or an
// unparseable reply propagates to the caller untouched.
type InsightGenerator struct {
	llm ChatClient
}

func NewInsightGenerator(llm ChatClient) *InsightGenerator {
	return &InsightGenerator{llm: llm}
}

const insightSystemPrompt = `You are a data analyst specializing in email marketing performance.
Analyze campaign metrics and provide actionable insights and recommendations.
Be specific, data-driven, and focus on concrete next steps.`

// GeneratePerformanceInsights formats a persona-keyed performance summary,
// asks the model for a structured analysis and merges in local metadata.
func (g *InsightGenerator) GeneratePerformanceInsights(ctx context.Context, records []types.PersonaRecord, campaign types.CampaignContext) (types.InsightReport, error) {
	log := logger.Component("insights")

	summary := FormatPerformanceSummary(records)

	userPrompt := fmt.Sprintf(`Analyze this email campaign performance:

Campaign: %s
Topic: %s

Performance by Persona:
%s

Provide:
1. Key Insights: What patterns or standouts do you see?
2. Best Performing Segment: Which persona engaged most and why?
3. Improvement Opportunities: Where can we optimize?
4. Recommendations: 3-5 specific, actionable recommendations for future campaigns
5. Content Suggestions: What content angles or formats to try next?

Format as JSON with keys: "key_insights", "best_segment", "opportunities", "recommendations" (list), "content_suggestions" (list)
`, orUnknown(campaign.Title), orUnknown(campaign.Topic), summary)

	raw, err := g.llm.ChatJSON(ctx, insightSystemPrompt, userPrompt, 0.7)
	if err != nil {
		return types.InsightReport{}, fmt.Errorf("insight generation: %w", err)
	}

	var report types.InsightReport
	if err := json.Unmarshal(raw, &report); err != nil {
		log.WithError(err).Error("insight response was not the expected structure")
		return types.InsightReport{}, fmt.Errorf("parse insight response: %w", err)
	}

	report.GeneratedAt = time.Now()
	report.Campaign = orUnknown(campaign.Title)
	report.AnalyzedSegments = len(records)

	log.WithField("segments", report.AnalyzedSegments).Info("insights generated")
	return report, nil
}

// FormatPerformanceSummary renders records as the plain-text block fed to
// the model.
func FormatPerformanceSummary(records []types.PersonaRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		persona := r.Persona
		if persona == "" {
			persona = "Unknown"
		}
		lines = append(lines, fmt.Sprintf(
			"%s:\n  Sent: %d | Opens: %.1f%% | Clicks: %.1f%% | Unsubs: %.2f%% | Engagement Score: %.1f/100",
			strings.ToUpper(persona),
			r.ContactsSent,
			r.OpenRate*100,
			r.ClickRate*100,
			r.UnsubscribeRate*100,
			r.EngagementScore,
		))
	}
	return strings.Join(lines, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
