package analyzer

import "github.com/dillontadeo/ai-content-pipeline/internal/types"

type optimizationRule struct {
	matches func(types.CampaignMetrics) bool
	message string
}

// Rules are evaluated independently and in order; several can fire on the
// same metrics set. Not an if/else chain on purpose.
var optimizationRules = []optimizationRule{
	{
		matches: func(m types.CampaignMetrics) bool { return m.OpenRate < 0.20 },
		message: "Subject Line: Open rate is below 20%. Try A/B testing subject lines with " +
			"personalization, numbers, or urgency to improve opens.",
	},
	{
		matches: func(m types.CampaignMetrics) bool { return m.ClickRate < 0.08 },
		message: "Call-to-Action: Click rate is low. Strengthen your CTAs with action verbs, " +
			"create urgency, and ensure links are prominent and compelling.",
	},
	{
		matches: func(m types.CampaignMetrics) bool { return m.ClickToOpenRate < 0.30 },
		message: "Email Design: Click-to-open rate is under 30%. Improve email layout, " +
			"use more visuals, and make CTAs more prominent.",
	},
	{
		matches: func(m types.CampaignMetrics) bool { return m.OpenRate > 0.25 && m.ClickRate < 0.10 },
		message: "Send Time: Good opens but low clicks suggests timing issues. " +
			"Test different send times (Tuesday-Thursday, 10am or 2pm often perform well).",
	},
	{
		matches: func(m types.CampaignMetrics) bool { return m.OpenRate < 0.22 },
		message: "Segmentation: Consider further segmenting your audience based on " +
			"engagement history and interests for more personalized content.",
	},
	{
		matches: func(m types.CampaignMetrics) bool { return m.OpenRate > 0.30 && m.ClickRate > 0.12 },
		message: "Strong Performance! Consider using this as a template for future campaigns. " +
			"Document what worked well (timing, subject line, content angle).",
	},
}

const defaultSuggestion = "Performance is within normal ranges. Continue monitoring and testing variations."

// SuggestOptimization returns every matching rule's suggestion in rule order,
// or a single default message when nothing fires. The content context is
// accepted for interface stability; current rules key off metrics only.
func SuggestOptimization(metrics types.CampaignMetrics, _ types.CampaignContext) []string {
	var suggestions []string
	for _, rule := range optimizationRules {
		if rule.matches(metrics) {
			suggestions = append(suggestions, rule.message)
		}
	}
	if len(suggestions) == 0 {
		return []string{defaultSuggestion}
	}
	return suggestions
}
