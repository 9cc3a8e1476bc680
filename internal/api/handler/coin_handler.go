package handler

import (
	"Mintora/internal/api/dto"
	"Mintora/internal/pkg/response"
	"Mintora/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CoinHandler struct {
	coinSvc service.CoinService
}

func NewCoinHandler(coinSvc service.CoinService) *CoinHandler {
	return &CoinHandler{
		coinSvc: coinSvc,
	}
}

// GetByCreator 查询创作者代币
func (s *CoinHandler) GetByCreator(c *gin.Context) {
	creator := strings.ToLower(strings.TrimSpace(c.Param("creatorId")))
	if creator == "" {
		response.Error(c, service.NewValidationError("creatorId", "不能为空"))
		return
	}

	coin, err := s.coinSvc.GetCoinForCreator(c.Request.Context(), creator)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, coin)
}

func (s *CoinHandler) Buy(c *gin.Context) {
	address, req, amount, ok := s.tradeParams(c)
	if !ok {
		return
	}

	result, err := s.coinSvc.Buy(c.Request.Context(), address, req.Recipient, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *CoinHandler) Sell(c *gin.Context) {
	address, req, amount, ok := s.tradeParams(c)
	if !ok {
		return
	}

	result, err := s.coinSvc.Sell(c.Request.Context(), address, req.Recipient, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// tradeParams 解析买卖参数，收款地址缺省为当前登录用户
func (s *CoinHandler) tradeParams(c *gin.Context) (string, *dto.TradeDTO, decimal.Decimal, bool) {
	address := strings.ToLower(strings.TrimSpace(c.Param("address")))

	var req dto.TradeDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return "", nil, decimal.Zero, false
	}

	amount, err := parseDecimal("amount", req.Amount)
	if err != nil {
		response.Error(c, err)
		return "", nil, decimal.Zero, false
	}
	if amount == nil {
		response.Error(c, service.NewValidationError("amount", "不能为空"))
		return "", nil, decimal.Zero, false
	}

	if strings.TrimSpace(req.Recipient) == "" {
		req.Recipient = creatorID(c)
	}
	return address, &req, *amount, true
}
