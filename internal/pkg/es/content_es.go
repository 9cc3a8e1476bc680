package es

import (
	"Mintora/internal/model"
	"time"
)

// ContentES 写入 ES 的内容文档
type ContentES struct {
	ID                  uint64    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	CreatorID           string    `json:"creator_id"`
	ContentType         string    `json:"content_type"`
	Price               float64   `json:"price"`
	SubscriptionEnabled bool      `json:"subscription_enabled"`
	CoinSymbol          string    `json:"coin_symbol"`
	Status              string    `json:"status"`
	Tags                []string  `json:"tags"`
	MintCount           int64     `json:"mint_count"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewContentES 由数据库记录构造 ES 文档
func NewContentES(rec *model.ContentRecord) *ContentES {
	tags := rec.Tags
	if tags == nil {
		tags = make([]string, 0)
	}
	return &ContentES{
		ID:                  rec.ID,
		Title:               rec.Title,
		Description:         rec.Description,
		CreatorID:           rec.CreatorID,
		ContentType:         rec.ContentType,
		Price:               rec.Price.InexactFloat64(),
		SubscriptionEnabled: rec.SubscriptionEnabled,
		CoinSymbol:          rec.CoinSymbol,
		Status:              rec.Status,
		Tags:                tags,
		MintCount:           rec.MintCount,
		CreatedAt:           rec.CreatedAt,
	}
}
