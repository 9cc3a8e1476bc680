package coin

import (
	"context"
	"encoding/hex"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/crypto/sha3"
)

// LocalProtocol 本地确定性实现，地址由 keccak256 派生，用于开发与测试
type LocalProtocol struct {
	chainID int64
	nonce   atomic.Uint64
}

func NewLocalProtocol(chainID int64) *LocalProtocol {
	return &LocalProtocol{chainID: chainID}
}

func (s *LocalProtocol) CreateCoin(ctx context.Context, req *CreateCoinRequest) (*CreatedCoin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := keccak256(strconv.FormatInt(s.chainID, 10), strings.ToLower(req.CreatorAddress), req.Symbol)
	return &CreatedCoin{
		Address: "0x" + hex.EncodeToString(seed[12:]),
		TxHash:  s.txHash("create", req.CreatorAddress, req.SeedPurchaseWei.String()),
	}, nil
}

func (s *LocalProtocol) Buy(ctx context.Context, req *TradeRequest) (*TxResult, error) {
	return s.trade(ctx, "buy", req)
}

func (s *LocalProtocol) Sell(ctx context.Context, req *TradeRequest) (*TxResult, error) {
	return s.trade(ctx, "sell", req)
}

func (s *LocalProtocol) trade(ctx context.Context, side string, req *TradeRequest) (*TxResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !req.AmountWei.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return &TxResult{
		TxHash:    s.txHash(side, req.CoinAddress, req.Recipient, req.AmountWei.String()),
		Status:    TxStatusConfirmed,
		AmountIn:  req.AmountWei,
		AmountOut: req.AmountWei,
	}, nil
}

func (s *LocalProtocol) txHash(parts ...string) string {
	n := s.nonce.Add(1)
	sum := keccak256(append(parts, strconv.FormatUint(n, 10))...)
	return "0x" + hex.EncodeToString(sum)
}

func keccak256(parts ...string) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum(nil)
}
