package types

import "time"

// RawCounts holds the raw per-send counters reported by the delivery side.
// Absent counters decode to zero; the calculators never see a "missing" field.
type RawCounts struct {
	Sent         int `json:"sent"`
	Opens        int `json:"opens"`
	Clicks       int `json:"clicks"`
	Bounces      int `json:"bounces"`
	Unsubscribes int `json:"unsubscribes"`
}

// CampaignMetrics is the derived metrics set for one campaign segment.
// Every rate is 0 when its denominator is 0.
type CampaignMetrics struct {
	ContactsSent    int     `json:"contacts_sent"`
	Opens           int     `json:"opens"`
	Clicks          int     `json:"clicks"`
	Bounces         int     `json:"bounces"`
	Unsubscribes    int     `json:"unsubscribes"`
	OpenRate        float64 `json:"open_rate"`
	ClickRate       float64 `json:"click_rate"`
	ClickToOpenRate float64 `json:"click_to_open_rate"`
	BounceRate      float64 `json:"bounce_rate"`
	UnsubscribeRate float64 `json:"unsubscribe_rate"`
	EngagementScore float64 `json:"engagement_score"`
}

// PersonaRecord tags a metrics set with the audience segment it was sent to.
type PersonaRecord struct {
	CampaignMetrics
	Persona    string `json:"persona"`
	CampaignID string `json:"campaign_id"`
}

// HistoryEntry is one historical performance row as delivered by storage,
// ordered most-recent-first by send_date.
type HistoryEntry struct {
	PersonaRecord
	CampaignName string    `json:"campaign_name"`
	SendDate     time.Time `json:"send_date"`
	BlogTitle    string    `json:"blog_title"`
	Topic        string    `json:"topic"`
}

// --------------------------------------------
// Benchmark comparison
// --------------------------------------------

// Benchmarks holds the industry reference rates for B2B SaaS email.
type Benchmarks struct {
	OpenRate        float64 `json:"open_rate"`
	ClickRate       float64 `json:"click_rate"`
	UnsubscribeRate float64 `json:"unsubscribe_rate"`
}

// DefaultBenchmarks is the fixed reference table. Treated as read-only.
var DefaultBenchmarks = Benchmarks{
	OpenRate:        0.21,
	ClickRate:       0.10,
	UnsubscribeRate: 0.005,
}

type MetricComparison struct {
	Actual            float64 `json:"actual"`
	Benchmark         float64 `json:"benchmark"`
	Difference        float64 `json:"difference"`
	DifferencePercent float64 `json:"difference_percent"`
	Status            string  `json:"status"` // above | below | at
}

type Comparison struct {
	Metrics     CampaignMetrics             `json:"metrics"`
	Benchmarks  Benchmarks                  `json:"benchmarks"`
	Performance map[string]MetricComparison `json:"performance"`
}

// --------------------------------------------
// Trend analysis
// --------------------------------------------

const (
	TrendStatusSuccess          = "success"
	TrendStatusInsufficientData = "insufficient_data"

	TrendImproving = "improving"
	TrendDeclining = "declining"
)

type TrendResult struct {
	CampaignsAnalyzed int     `json:"campaigns_analyzed"`
	AvgOpenRate       float64 `json:"avg_open_rate"`
	AvgClickRate      float64 `json:"avg_click_rate"`
	OpenRateTrend     string  `json:"open_rate_trend"`
	ClickRateTrend    string  `json:"click_rate_trend"`
	OpenRateChange    float64 `json:"open_rate_change"`
	ClickRateChange   float64 `json:"click_rate_change"`
}

type TrendAnalysis struct {
	Status           string                 `json:"status"`
	Message          string                 `json:"message,omitempty"`
	PersonasAnalyzed int                    `json:"personas_analyzed,omitempty"`
	Trends           map[string]TrendResult `json:"trends,omitempty"`
	AnalyzedAt       time.Time              `json:"analyzed_at,omitempty"`
}

// CampaignContext carries the content metadata attached to an analysis call.
type CampaignContext struct {
	Title     string `json:"title"`
	Topic     string `json:"topic"`
	WordCount int    `json:"word_count,omitempty"`
}
