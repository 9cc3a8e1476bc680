package dto

// TradeDTO 买卖代币，Amount 以最小单位（wei）表示
type TradeDTO struct {
	Amount    string `json:"amount" validate:"required,max=78"`
	Recipient string `json:"recipient" validate:"max=128"`
}
