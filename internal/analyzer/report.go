package analyzer

import (
	"fmt"
	"strings"

	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

const reportRule = "======================================================================"
const reportRuleThin = "----------------------------------------------------------------------"

// FormatPerformanceReport renders a campaign's per-persona performance and
// AI insights as a plain-text report.
func FormatPerformanceReport(campaign types.CampaignContext, sendDate string, records []types.PersonaRecord, insights types.InsightReport) string {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	b.WriteString("CAMPAIGN PERFORMANCE REPORT\n")
	b.WriteString(reportRule + "\n\n")
	fmt.Fprintf(&b, "Campaign: %s\n", orUnknown(campaign.Title))
	fmt.Fprintf(&b, "Topic: %s\n", orUnknown(campaign.Topic))
	fmt.Fprintf(&b, "Send Date: %s\n\n", orUnknown(sendDate))

	b.WriteString(reportRuleThin + "\n")
	b.WriteString("PERFORMANCE BY PERSONA\n")
	b.WriteString(reportRuleThin + "\n\n")

	for _, r := range records {
		persona := r.Persona
		if persona == "" {
			persona = "Unknown"
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(persona))
		fmt.Fprintf(&b, "   Contacts Sent: %d\n", r.ContactsSent)
		fmt.Fprintf(&b, "   Open Rate: %.1f%%\n", r.OpenRate*100)
		fmt.Fprintf(&b, "   Click Rate: %.1f%%\n", r.ClickRate*100)
		fmt.Fprintf(&b, "   Unsubscribe Rate: %.2f%%\n", r.UnsubscribeRate*100)
		fmt.Fprintf(&b, "   Engagement Score: %.1f/100\n\n", r.EngagementScore)
	}

	b.WriteString(reportRuleThin + "\n")
	b.WriteString("KEY INSIGHTS\n")
	b.WriteString(reportRuleThin + "\n\n")

	if insights.KeyInsights != "" {
		b.WriteString(string(insights.KeyInsights) + "\n\n")
	} else {
		b.WriteString("No insights available\n\n")
	}
	best := insights.BestSegment
	if best == "" {
		best = "N/A"
	}
	fmt.Fprintf(&b, "Best Performing Segment: %s\n\n", best)

	b.WriteString("Recommendations:\n")
	for i, rec := range insights.Recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
	}

	b.WriteString("\n" + reportRule)
	return b.String()
}
