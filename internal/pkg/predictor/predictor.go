package predictor

import (
	"Mintora/internal/model"
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Features 预测输入特征
type Features struct {
	Title               string  `json:"title"`
	ContentType         string  `json:"content_type"`
	Price               float64 `json:"price"`
	SubscriptionEnabled bool    `json:"subscription"`
	SubscriptionPrice   float64 `json:"subscription_price"`
	TagCount            int     `json:"tag_count"`
	TitleLength         int     `json:"title_length"`
	DescriptionLength   int     `json:"description_length"`
	MintCount           int64   `json:"mint_count"`
}

// Scores 打分器原始输出，未经裁剪
type Scores struct {
	PriceChangePct  float64 `json:"price_change_pct"`
	VolumeChangePct float64 `json:"volume_change_pct"`
	EngagementPct   float64 `json:"engagement_pct"`
	ProjectedMints  float64 `json:"projected_mints"`
	ConfidencePct   float64 `json:"confidence_pct"`
	Volatility      float64 `json:"volatility"`
}

// Scorer 可替换的打分策略
type Scorer interface {
	Name() string
	Score(ctx context.Context, f *Features) (*Scores, error)
}

// 输出字段取值范围
const (
	MinConfidence     = 0
	MaxConfidence     = 100
	MinEngagement     = 50
	MaxEngagement     = 99
	MinChangePct      = -100
	MaxChangePct      = 500
	MinProjectedMints = 0
	MaxProjectedMints = 100000
)

type Predictor struct {
	scorer Scorer
	pool   []string
	now    func() time.Time
}

func New(scorer Scorer) *Predictor {
	return &Predictor{
		scorer: scorer,
		pool:   TrendingTagPool,
		now:    time.Now,
	}
}

// Predict 生成预测结果，所有数值字段都会裁剪到合法范围
func (s *Predictor) Predict(ctx context.Context, rec *model.ContentRecord) (*model.TrendForecast, error) {
	if rec == nil {
		return nil, errors.New("predict: nil record")
	}
	features := FeaturesFromRecord(rec)

	raw, err := s.scorer.Score(ctx, features)
	if err != nil {
		return nil, errors.Wrapf(err, "scorer %s", s.scorer.Name())
	}
	if raw == nil {
		return nil, errors.Errorf("scorer %s returned no scores", s.scorer.Name())
	}

	forecast := &model.TrendForecast{
		PriceChangePct:        round2(Clamp(raw.PriceChangePct, MinChangePct, MaxChangePct)),
		VolumeChangePct:       round2(Clamp(raw.VolumeChangePct, MinChangePct, MaxChangePct)),
		ExpectedEngagementPct: round2(Clamp(raw.EngagementPct, MinEngagement, MaxEngagement)),
		ProjectedMints:        int64(math.Round(Clamp(raw.ProjectedMints, MinProjectedMints, MaxProjectedMints))),
		ConfidencePct:         round2(Clamp(raw.ConfidencePct, MinConfidence, MaxConfidence)),
		Scorer:                s.scorer.Name(),
		GeneratedAt:           s.now(),
	}
	forecast.RecommendedTags = RecommendTags(rec.Title, rec.ContentType, raw.Volatility, s.pool)
	forecast.Insights = Insights(forecast)

	return forecast, nil
}

// FeaturesFromRecord 提取记录的数值特征
func FeaturesFromRecord(rec *model.ContentRecord) *Features {
	f := &Features{
		Title:               rec.Title,
		ContentType:         rec.ContentType,
		Price:               rec.Price.InexactFloat64(),
		SubscriptionEnabled: rec.SubscriptionEnabled,
		TagCount:            len(rec.Tags),
		TitleLength:         utf8.RuneCountInString(rec.Title),
		DescriptionLength:   utf8.RuneCountInString(rec.Description),
		MintCount:           rec.MintCount,
	}
	if rec.SubscriptionPrice != nil {
		f.SubscriptionPrice = rec.SubscriptionPrice.InexactFloat64()
	}
	return f
}

// Clamp 将 v 限制在 [lo, hi]，NaN 取下界
func Clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
