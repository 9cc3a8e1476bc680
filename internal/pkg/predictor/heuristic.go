package predictor

import (
	"context"
	"math"
)

const ScorerHeuristic = "heuristic"

var baseEngagement = map[string]float64{
	"image": 62,
	"video": 70,
	"audio": 58,
}

// HeuristicScorer 基于规则的确定性打分
type HeuristicScorer struct{}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

func (s *HeuristicScorer) Name() string {
	return ScorerHeuristic
}

func (s *HeuristicScorer) Score(ctx context.Context, f *Features) (*Scores, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engagement := baseEngagement[f.ContentType]
	if engagement == 0 {
		engagement = 55
	}
	engagement += math.Min(float64(f.TagCount), 10) * 1.5
	engagement += math.Min(float64(f.DescriptionLength)/100, 5)
	if f.SubscriptionEnabled {
		engagement += 4
	}

	var priceChange float64
	switch {
	case f.Price < 0.01:
		priceChange = 12
	case f.Price < 0.1:
		priceChange = 6
	case f.Price < 1:
		priceChange = 2
	default:
		priceChange = -4 - math.Min(math.Log10(f.Price)*4, 20)
	}
	if f.SubscriptionEnabled {
		priceChange += 3
	}

	volumeChange := (engagement-55)*1.5 + math.Min(float64(f.MintCount), 200)*0.5
	projectedMints := engagement*2/(1+f.Price*10) + float64(f.MintCount)

	confidence := 30 + math.Min(float64(f.TagCount), 5)*4 + math.Min(float64(f.DescriptionLength)/50, 10)
	if f.MintCount > 0 {
		confidence += 15
	}

	volatility := 0.25
	if f.ContentType == "video" {
		volatility += 0.2
	}
	if f.Price >= 1 {
		volatility += 0.3
	}
	if f.TitleLength < 8 {
		volatility += 0.1
	}

	return &Scores{
		PriceChangePct:  priceChange,
		VolumeChangePct: volumeChange,
		EngagementPct:   engagement,
		ProjectedMints:  projectedMints,
		ConfidencePct:   confidence,
		Volatility:      volatility,
	}, nil
}
