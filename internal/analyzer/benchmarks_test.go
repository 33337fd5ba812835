package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

func TestCompareToBenchmarks_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		metrics    types.CampaignMetrics
		wantOpen   string
		wantClick  string
		wantUnsubs string
	}{
		{
			name:       "all above",
			metrics:    types.CampaignMetrics{OpenRate: 0.30, ClickRate: 0.15, UnsubscribeRate: 0.01},
			wantOpen:   "above",
			wantClick:  "above",
			wantUnsubs: "above",
		},
		{
			name:       "all below",
			metrics:    types.CampaignMetrics{OpenRate: 0.10, ClickRate: 0.05, UnsubscribeRate: 0.001},
			wantOpen:   "below",
			wantClick:  "below",
			wantUnsubs: "below",
		},
		{
			name:       "exactly at benchmark",
			metrics:    types.CampaignMetrics{OpenRate: 0.21, ClickRate: 0.10, UnsubscribeRate: 0.005},
			wantOpen:   "at",
			wantClick:  "at",
			wantUnsubs: "at",
		},
		{
			name:       "zero metrics are below",
			metrics:    types.CampaignMetrics{},
			wantOpen:   "below",
			wantClick:  "below",
			wantUnsubs: "below",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp := CompareToBenchmarks(tt.metrics, types.DefaultBenchmarks)
			assert.Equal(t, tt.wantOpen, cmp.Performance["open_rate"].Status)
			assert.Equal(t, tt.wantClick, cmp.Performance["click_rate"].Status)
			assert.Equal(t, tt.wantUnsubs, cmp.Performance["unsubscribe_rate"].Status)
		})
	}
}

func TestCompareToBenchmarks_Differences(t *testing.T) {
	metrics := types.CampaignMetrics{OpenRate: 0.315, ClickRate: 0.05, UnsubscribeRate: 0.005}

	cmp := CompareToBenchmarks(metrics, types.DefaultBenchmarks)

	open := cmp.Performance["open_rate"]
	assert.InDelta(t, 0.105, open.Difference, 1e-9)
	assert.InDelta(t, 50.0, open.DifferencePercent, 1e-9)

	click := cmp.Performance["click_rate"]
	assert.InDelta(t, -0.05, click.Difference, 1e-9)
	assert.InDelta(t, -50.0, click.DifferencePercent, 1e-9)

	unsub := cmp.Performance["unsubscribe_rate"]
	assert.Zero(t, unsub.Difference)
	assert.Zero(t, unsub.DifferencePercent)
}

func TestCompareToBenchmarks_EchoesInput(t *testing.T) {
	metrics := CalculateMetrics(types.RawCounts{Sent: 200, Opens: 50, Clicks: 20})

	cmp := CompareToBenchmarks(metrics, types.DefaultBenchmarks)

	require.Equal(t, metrics, cmp.Metrics)
	require.Equal(t, types.DefaultBenchmarks, cmp.Benchmarks)
	require.Len(t, cmp.Performance, 3)
}
