package service

import (
	"Mintora/internal/model"
	"context"
	"time"
)

// EventPublisher 领域事件发布，由 Kafka 生产者实现
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Locker 分布式锁，由 Redis 实现
type Locker interface {
	TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value interface{})
}

// Cache 字符串缓存，由 Redis 实现
type Cache interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteKey(ctx context.Context, key string) error
}

// Forecaster 趋势预测
type Forecaster interface {
	Predict(ctx context.Context, rec *model.ContentRecord) (*model.TrendForecast, error)
}

const (
	EventContentPublished = "content.published"
	EventContentModerated = "content.moderated"
)

// ContentEvent 内容相关事件，发布后供审核服务消费
type ContentEvent struct {
	Type        string    `json:"type"`
	ContentID   uint64    `json:"contentId"`
	CreatorID   string    `json:"creatorId"`
	Title       string    `json:"title"`
	ContentType string    `json:"contentType"`
	Status      string    `json:"status"`
	Metadata    string    `json:"metadataLocator"`
	CoinAddress string    `json:"coinAddress"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func newContentEvent(eventType string, rec *model.ContentRecord) *ContentEvent {
	return &ContentEvent{
		Type:        eventType,
		ContentID:   rec.ID,
		CreatorID:   rec.CreatorID,
		Title:       rec.Title,
		ContentType: rec.ContentType,
		Status:      rec.Status,
		Metadata:    rec.MetadataLocator,
		CoinAddress: rec.CoinAddress,
		OccurredAt:  time.Now(),
	}
}
