package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ContentTypeImage = "image"
	ContentTypeVideo = "video"
	ContentTypeAudio = "audio"
)

const (
	ContentStatusPending  = "pending"
	ContentStatusApproved = "approved"
	ContentStatusRejected = "rejected"
)

// ContentRecord 创作者发布的内容及其售卖条款
type ContentRecord struct {
	ID                  uint64           `gorm:"primaryKey" json:"id"`
	Title               string           `gorm:"type:varchar(255);not null" json:"title"`
	Description         string           `gorm:"type:text" json:"description"`
	CreatorID           string           `gorm:"type:varchar(128);not null;index:idx_creator_id" json:"creatorId"`
	ContentType         string           `gorm:"type:varchar(16);not null;index:idx_content_type" json:"contentType"`
	Price               decimal.Decimal  `gorm:"type:decimal(36,18);not null" json:"price"`
	SubscriptionEnabled bool             `gorm:"not null;default:false" json:"isSubscription"`
	SubscriptionPrice   *decimal.Decimal `gorm:"type:decimal(36,18)" json:"subscriptionPrice,omitempty"`
	MetadataLocator     string           `gorm:"type:varchar(255);not null" json:"metadataLocator"`
	FileLocator         string           `gorm:"type:varchar(255);not null" json:"fileLocator"`
	CoinAddress         string           `gorm:"type:varchar(64);not null;index:idx_coin_address" json:"coinAddress"`
	CoinSymbol          string           `gorm:"type:varchar(16);not null" json:"coinSymbol"`
	Status              string           `gorm:"type:varchar(16);not null;default:pending;index:idx_status" json:"status"`
	MintCount           int64            `gorm:"not null;default:0" json:"mintCount"`
	Tags                []string         `gorm:"type:text;serializer:json" json:"tags"`
	Prediction          *TrendForecast   `gorm:"type:text;serializer:json" json:"prediction,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

func (ContentRecord) TableName() string {
	return "content_records"
}

// IsOwnedBy 判断内容是否属于该创作者
func (s *ContentRecord) IsOwnedBy(creatorID string) bool {
	return creatorID != "" && s.CreatorID == creatorID
}

// Clone 深拷贝，避免调用方修改共享的切片
func (s *ContentRecord) Clone() *ContentRecord {
	if s == nil {
		return nil
	}
	c := *s
	if s.Tags != nil {
		c.Tags = append([]string(nil), s.Tags...)
	}
	c.Prediction = s.Prediction.Clone()
	return &c
}

// IsValidContentType 判断内容类型是否受支持
func IsValidContentType(t string) bool {
	switch t {
	case ContentTypeImage, ContentTypeVideo, ContentTypeAudio:
		return true
	}
	return false
}
