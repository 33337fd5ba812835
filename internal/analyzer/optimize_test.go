package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

func TestSuggestOptimization_WeakCampaignFiresFourRules(t *testing.T) {
	metrics := types.CampaignMetrics{
		OpenRate:        0.15,
		ClickRate:       0.05,
		ClickToOpenRate: 0.20,
	}

	got := SuggestOptimization(metrics, types.CampaignContext{})

	require.Len(t, got, 4)
	// fixed rule-declaration order
	assert.True(t, strings.HasPrefix(got[0], "Subject Line:"))
	assert.True(t, strings.HasPrefix(got[1], "Call-to-Action:"))
	assert.True(t, strings.HasPrefix(got[2], "Email Design:"))
	assert.True(t, strings.HasPrefix(got[3], "Segmentation:"))
}

func TestSuggestOptimization_StrongCampaignFiresTemplateRuleOnly(t *testing.T) {
	metrics := types.CampaignMetrics{
		OpenRate:        0.35,
		ClickRate:       0.15,
		ClickToOpenRate: 0.43,
	}

	got := SuggestOptimization(metrics, types.CampaignContext{})

	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Strong Performance")
}

func TestSuggestOptimization_TimingRule(t *testing.T) {
	metrics := types.CampaignMetrics{
		OpenRate:        0.28,
		ClickRate:       0.09,
		ClickToOpenRate: 0.32,
	}

	got := SuggestOptimization(metrics, types.CampaignContext{})

	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0], "Send Time:"))
}

func TestSuggestOptimization_NoRuleMatches(t *testing.T) {
	metrics := types.CampaignMetrics{
		OpenRate:        0.23,
		ClickRate:       0.11,
		ClickToOpenRate: 0.48,
	}

	got := SuggestOptimization(metrics, types.CampaignContext{})

	require.Len(t, got, 1)
	assert.Equal(t, defaultSuggestion, got[0])
}

func TestSuggestOptimization_ZeroMetricsFireAllLowRules(t *testing.T) {
	got := SuggestOptimization(types.CampaignMetrics{}, types.CampaignContext{})

	// rules 1, 2, 3 and 5 all match a fully zero metrics set
	require.Len(t, got, 4)
}
