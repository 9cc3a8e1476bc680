package model

import "time"

// TrendForecast 内容表现预测，仅作参考
type TrendForecast struct {
	PriceChangePct        float64   `json:"priceChangePct"`
	VolumeChangePct       float64   `json:"volumeChangePct"`
	ExpectedEngagementPct float64   `json:"expectedEngagementPct"`
	ProjectedMints        int64     `json:"projectedMints"`
	ConfidencePct         float64   `json:"confidencePct"`
	RecommendedTags       []string  `json:"recommendedTags"`
	Insights              []string  `json:"insights"`
	Scorer                string    `json:"scorer,omitempty"`
	GeneratedAt           time.Time `json:"generatedAt"`
}

func (s *TrendForecast) Clone() *TrendForecast {
	if s == nil {
		return nil
	}
	c := *s
	c.RecommendedTags = append([]string(nil), s.RecommendedTags...)
	c.Insights = append([]string(nil), s.Insights...)
	return &c
}
