package mongo

import (
	"Mintora/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ForecastAuditRepo interface {
	Append(ctx context.Context, contentID uint64, creatorID, source string, forecast *model.TrendForecast) error
	ListByContent(ctx context.Context, contentID uint64, limit int64) ([]*ForecastAuditModel, error)
}

type forecastAuditRepoImpl struct {
	col *mongo.Collection
}

func NewForecastAuditRepo(db *mongo.Database) ForecastAuditRepo {
	return &forecastAuditRepoImpl{
		col: db.Collection(forecastAuditCollection),
	}
}

// NewAuditModel 将预测结果转换为审计文档
func NewAuditModel(contentID uint64, creatorID, source string, f *model.TrendForecast) *ForecastAuditModel {
	createdAt := f.GeneratedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &ForecastAuditModel{
		ContentID:             contentID,
		CreatorID:             creatorID,
		Source:                source,
		Scorer:                f.Scorer,
		PriceChangePct:        f.PriceChangePct,
		VolumeChangePct:       f.VolumeChangePct,
		ExpectedEngagementPct: f.ExpectedEngagementPct,
		ProjectedMints:        f.ProjectedMints,
		ConfidencePct:         f.ConfidencePct,
		RecommendedTags:       f.RecommendedTags,
		Insights:              f.Insights,
		CreatedAt:             createdAt,
	}
}

// Append 追加一条预测审计记录
func (s *forecastAuditRepoImpl) Append(ctx context.Context, contentID uint64, creatorID, source string, forecast *model.TrendForecast) error {
	_, err := s.col.InsertOne(ctx, NewAuditModel(contentID, creatorID, source, forecast))
	return err
}

// ListByContent 按时间倒序获取内容的预测历史
func (s *forecastAuditRepoImpl) ListByContent(ctx context.Context, contentID uint64, limit int64) ([]*ForecastAuditModel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, bson.M{"content_id": contentID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*ForecastAuditModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func ensureForecastAuditIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(forecastAuditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "content_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
