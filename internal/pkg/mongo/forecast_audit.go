package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const forecastAuditCollection = "forecast_audit"

// ForecastAuditModel 趋势预测审计记录
type ForecastAuditModel struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContentID             uint64             `bson:"content_id" json:"contentId"`
	CreatorID             string             `bson:"creator_id" json:"creatorId"`
	Source                string             `bson:"source" json:"source"` // publish | manual | backfill
	Scorer                string             `bson:"scorer" json:"scorer"`
	PriceChangePct        float64            `bson:"price_change_pct" json:"priceChangePct"`
	VolumeChangePct       float64            `bson:"volume_change_pct" json:"volumeChangePct"`
	ExpectedEngagementPct float64            `bson:"expected_engagement_pct" json:"expectedEngagementPct"`
	ProjectedMints        int64              `bson:"projected_mints" json:"projectedMints"`
	ConfidencePct         float64            `bson:"confidence_pct" json:"confidencePct"`
	RecommendedTags       []string           `bson:"recommended_tags" json:"recommendedTags"`
	Insights              []string           `bson:"insights" json:"insights"`
	CreatedAt             time.Time          `bson:"created_at" json:"createdAt"`
}
