package coin

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

const (
	ProtocolHTTP  = "http"
	ProtocolLocal = "local"
)

const (
	TxStatusConfirmed = "confirmed"
	TxStatusSubmitted = "submitted"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// CreateCoinRequest 创建代币参数
type CreateCoinRequest struct {
	CreatorAddress   string          `json:"creator"`
	Name             string          `json:"name"`
	Symbol           string          `json:"symbol"`
	MetadataURI      string          `json:"uri"`
	ChainID          int64           `json:"chainId"`
	SeedPurchaseWei  decimal.Decimal `json:"initialPurchaseWei"`
	PlatformReferrer string          `json:"platformReferrer,omitempty"`
}

// CreatedCoin 协议返回的代币
type CreatedCoin struct {
	Address string `json:"address"`
	TxHash  string `json:"txHash"`
}

// TradeRequest 买卖参数，AmountWei 为链上最小单位
type TradeRequest struct {
	CoinAddress string          `json:"coinAddress"`
	Recipient   string          `json:"recipient"`
	AmountWei   decimal.Decimal `json:"amountWei"`
	ChainID     int64           `json:"chainId"`
}

// TxResult 交易结果
type TxResult struct {
	TxHash    string          `json:"txHash"`
	Status    string          `json:"status"`
	AmountIn  decimal.Decimal `json:"amountIn"`
	AmountOut decimal.Decimal `json:"amountOut"`
}

// Protocol 外部代币协议
type Protocol interface {
	CreateCoin(ctx context.Context, req *CreateCoinRequest) (*CreatedCoin, error)
	Buy(ctx context.Context, req *TradeRequest) (*TxResult, error)
	Sell(ctx context.Context, req *TradeRequest) (*TxResult, error)
}
