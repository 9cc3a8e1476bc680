package dto

import (
	"Mintora/internal/model"
	"time"

	"github.com/shopspring/decimal"
)

// PublishContentForm 发布内容的 multipart 表单，文件字段为 file
type PublishContentForm struct {
	Title             string `form:"title" validate:"max=255"`
	Description       string `form:"description" validate:"max=5000"`
	Price             string `form:"price"`
	ContentType       string `form:"contentType"`
	IsSubscription    bool   `form:"isSubscription"`
	SubscriptionPrice string `form:"subscriptionPrice"`
	CoinSymbol        string `form:"coinSymbol" validate:"max=16"`
	CoinName          string `form:"coinName" validate:"max=64"`
	Tags              string `form:"tags"`
	AgeVerification   bool   `form:"ageVerification"`
	ContentOwnership  bool   `form:"contentOwnership"`
}

// ListContentQuery 内容列表查询参数
type ListContentQuery struct {
	Limit          int    `form:"limit" validate:"min=0,max=100"`
	Offset         int    `form:"offset" validate:"min=0"`
	Sort           string `form:"sort" validate:"omitempty,oneof=newest oldest price-asc price-desc most-minted"`
	Creator        string `form:"creator" validate:"max=128"`
	ContentType    string `form:"contentType" validate:"omitempty,oneof=image video audio"`
	MinPrice       string `form:"minPrice"`
	MaxPrice       string `form:"maxPrice"`
	IsSubscription *bool  `form:"isSubscription"`
}

// SearchContentQuery 全文检索参数
type SearchContentQuery struct {
	Q      string `form:"q" validate:"max=100"`
	Limit  int    `form:"limit" validate:"min=0,max=100"`
	Offset int    `form:"offset" validate:"min=0"`
}

// UpdateContentDTO 创作者修改售卖条款，字段缺省表示不修改
type UpdateContentDTO struct {
	Price *string  `json:"price"`
	Tags  []string `json:"tags" validate:"omitempty,max=20,dive,max=32"`
}

// UpdateStatusDTO 审核状态变更
type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// MintDTO 铸造记录
type MintDTO struct {
	TxHash string `json:"txHash" validate:"required,max=80"`
}

// ContentDTO 内容返回结构，附带网关地址
type ContentDTO struct {
	ID                  uint64               `json:"id"`
	Title               string               `json:"title"`
	Description         string               `json:"description"`
	CreatorID           string               `json:"creatorId"`
	ContentType         string               `json:"contentType"`
	Price               decimal.Decimal      `json:"price"`
	SubscriptionEnabled bool                 `json:"isSubscription"`
	SubscriptionPrice   *decimal.Decimal     `json:"subscriptionPrice,omitempty"`
	MetadataLocator     string               `json:"metadataLocator"`
	MetadataURL         string               `json:"metadataUrl"`
	FileLocator         string               `json:"fileLocator"`
	FileURL             string               `json:"fileUrl"`
	CoinAddress         string               `json:"coinAddress"`
	CoinSymbol          string               `json:"coinSymbol"`
	Status              string               `json:"status"`
	MintCount           int64                `json:"mintCount"`
	Tags                []string             `json:"tags"`
	Prediction          *model.TrendForecast `json:"prediction,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}
