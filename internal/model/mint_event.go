package model

import "time"

// MintEvent 已计数的铸造交易，tx_hash 唯一保证同一交易只计一次
type MintEvent struct {
	ID        uint64    `gorm:"primaryKey"`
	ContentID uint64    `gorm:"not null;index:idx_content_id"`
	TxHash    string    `gorm:"type:varchar(80);not null;uniqueIndex:uk_tx_hash"`
	CreatedAt time.Time
}

func (MintEvent) TableName() string {
	return "mint_events"
}
