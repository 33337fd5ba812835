package analyzer

import "github.com/dillontadeo/ai-content-pipeline/internal/types"

// CompareToBenchmarks classifies each benchmarked metric as above, below or
// at its reference rate. Pure; the input is echoed back in the result.
func CompareToBenchmarks(metrics types.CampaignMetrics, benchmarks types.Benchmarks) types.Comparison {
	cmp := types.Comparison{
		Metrics:     metrics,
		Benchmarks:  benchmarks,
		Performance: make(map[string]types.MetricComparison, 3),
	}

	cmp.Performance["open_rate"] = compareMetric(metrics.OpenRate, benchmarks.OpenRate)
	cmp.Performance["click_rate"] = compareMetric(metrics.ClickRate, benchmarks.ClickRate)
	cmp.Performance["unsubscribe_rate"] = compareMetric(metrics.UnsubscribeRate, benchmarks.UnsubscribeRate)

	return cmp
}

func compareMetric(actual, benchmark float64) types.MetricComparison {
	diff := actual - benchmark

	status := "at"
	switch {
	case diff > 0:
		status = "above"
	case diff < 0:
		status = "below"
	}

	return types.MetricComparison{
		Actual:            actual,
		Benchmark:         benchmark,
		Difference:        diff,
		DifferencePercent: diff / benchmark * 100,
		Status:            status,
	}
}
