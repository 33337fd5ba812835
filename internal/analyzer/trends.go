package analyzer

import (
	"time"

	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

// IdentifyTrends computes per-persona averages and a first-half/second-half
// trend direction over a campaign history.
//
// The caller-supplied ordering is authoritative and is not re-sorted.
// Storage delivers history most-recent-first, so the "second half" of each
// persona group is the older slice; "improving" therefore means the older
// half outperformed the newer one. This matches the long-standing behavior
// of the reporting layer and must not be silently reversed.
func IdentifyTrends(history []types.HistoryEntry) types.TrendAnalysis {
	if len(history) < 2 {
		return types.TrendAnalysis{
			Status:  types.TrendStatusInsufficientData,
			Message: "need at least 2 campaigns for trend analysis",
		}
	}

	// Group by persona, preserving the caller's record order within groups.
	byPersona := map[string][]types.HistoryEntry{}
	for _, h := range history {
		byPersona[h.Persona] = append(byPersona[h.Persona], h)
	}

	trends := map[string]types.TrendResult{}
	for persona, records := range byPersona {
		if len(records) < 2 {
			continue // too thin to trend, excluded silently
		}
		trends[persona] = trendForGroup(records)
	}

	return types.TrendAnalysis{
		Status:           types.TrendStatusSuccess,
		PersonasAnalyzed: len(trends),
		Trends:           trends,
		AnalyzedAt:       time.Now(),
	}
}

func trendForGroup(records []types.HistoryEntry) types.TrendResult {
	n := len(records)
	mid := n / 2

	firstOpen := meanOpenRate(records[:mid])
	secondOpen := meanOpenRate(records[mid:])
	firstClick := meanClickRate(records[:mid])
	secondClick := meanClickRate(records[mid:])

	return types.TrendResult{
		CampaignsAnalyzed: n,
		AvgOpenRate:       meanOpenRate(records),
		AvgClickRate:      meanClickRate(records),
		OpenRateTrend:     direction(firstOpen, secondOpen),
		ClickRateTrend:    direction(firstClick, secondClick),
		OpenRateChange:    secondOpen - firstOpen,
		ClickRateChange:   secondClick - firstClick,
	}
}

// direction reports improving only on a strict increase; ties decline.
func direction(first, second float64) string {
	if second > first {
		return types.TrendImproving
	}
	return types.TrendDeclining
}

func meanOpenRate(records []types.HistoryEntry) float64 {
	sum := 0.0
	for _, r := range records {
		sum += r.OpenRate
	}
	return sum / float64(len(records))
}

func meanClickRate(records []types.HistoryEntry) float64 {
	sum := 0.0
	for _, r := range records {
		sum += r.ClickRate
	}
	return sum / float64(len(records))
}
