package predictor

import (
	"Mintora/internal/model"
	"fmt"
	"math"
)

// Insights 按字段顺序独立评估阈值规则
func Insights(f *model.TrendForecast) []string {
	insights := make([]string, 0)

	switch {
	case f.PriceChangePct > 5:
		insights = append(insights, fmt.Sprintf("Bullish outlook: price is projected to rise %.1f%%", f.PriceChangePct))
	case f.PriceChangePct < -5:
		insights = append(insights, fmt.Sprintf("Cautionary: price may fall %.1f%%, consider adjusting the listing price", math.Abs(f.PriceChangePct)))
	}

	switch {
	case f.VolumeChangePct > 20:
		insights = append(insights, fmt.Sprintf("Trading volume surge expected (+%.1f%%)", f.VolumeChangePct))
	case f.VolumeChangePct < -20:
		insights = append(insights, fmt.Sprintf("Trading volume may soften (%.1f%%)", f.VolumeChangePct))
	}

	switch {
	case f.ExpectedEngagementPct > 70:
		insights = append(insights, fmt.Sprintf("Strong audience engagement expected (%.0f%%)", f.ExpectedEngagementPct))
	// Predict 输出的参与度下限为 MinEngagement，此分支只对外部传入的预测生效
	case f.ExpectedEngagementPct < 30:
		insights = append(insights, "Engagement looks low: add tags and a richer description to improve reach")
	}

	if f.ProjectedMints >= 100 {
		insights = append(insights, fmt.Sprintf("High mint demand projected (%d mints)", f.ProjectedMints))
	}

	if f.ConfidencePct < 40 {
		insights = append(insights, "Low confidence forecast, treat these numbers as indicative only")
	}

	return insights
}
