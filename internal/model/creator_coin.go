package model

import "time"

// CreatorCoin 创作者代币，每个创作者至多一个
type CreatorCoin struct {
	ID              uint64    `gorm:"primaryKey" json:"-"`
	CreatorID       string    `gorm:"type:varchar(128);not null;uniqueIndex:uk_creator_id" json:"creatorId"`
	CoinAddress     string    `gorm:"type:varchar(64);not null;uniqueIndex:uk_coin_address" json:"coinAddress"`
	Name            string    `gorm:"type:varchar(64);not null" json:"name"`
	Symbol          string    `gorm:"type:varchar(16);not null" json:"symbol"`
	ChainID         int64     `gorm:"not null" json:"chainId"`
	TxHash          string    `gorm:"type:varchar(80)" json:"txHash,omitempty"`
	MetadataLocator string    `gorm:"type:varchar(255)" json:"metadataLocator,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (CreatorCoin) TableName() string {
	return "creator_coins"
}
