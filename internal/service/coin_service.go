package service

import (
	"Mintora/internal/model"
	"Mintora/internal/pkg/coin"
	"Mintora/internal/pkg/consts"
	"Mintora/internal/repository"
	"context"
	log "log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const coinLockRetryTimes = 25

// CoinSettings 代币协议参数
type CoinSettings struct {
	ChainID          int64
	SeedPurchaseWei  decimal.Decimal
	PlatformReferrer string
}

type CoinService interface {
	GetCoinForCreator(ctx context.Context, creatorID string) (*model.CreatorCoin, error)
	CreateCoinForCreator(ctx context.Context, creatorID, name, symbol, metadataLocator string) (*model.CreatorCoin, error)
	ResolveCoin(ctx context.Context, creatorID, name, symbol, metadataLocator string) (*model.CreatorCoin, error)
	Buy(ctx context.Context, coinAddress, recipient string, amountWei decimal.Decimal) (*coin.TxResult, error)
	Sell(ctx context.Context, coinAddress, recipient string, amountWei decimal.Decimal) (*coin.TxResult, error)
}

type coinServiceImpl struct {
	repo     repository.CoinRepo
	protocol coin.Protocol
	locker   Locker
	settings CoinSettings
	group    singleflight.Group
}

// NewCoinService locker 可为 nil，此时仅依赖唯一索引保证一人一币
func NewCoinService(repo repository.CoinRepo, protocol coin.Protocol, locker Locker, settings CoinSettings) CoinService {
	return &coinServiceImpl{
		repo:     repo,
		protocol: protocol,
		locker:   locker,
		settings: settings,
	}
}

// GetCoinForCreator 查询创作者代币，不存在返回 ErrCoinNotFound
func (s *coinServiceImpl) GetCoinForCreator(ctx context.Context, creatorID string) (*model.CreatorCoin, error) {
	c, err := s.lookup(ctx, creatorID)
	if err != nil {
		return nil, errors.Wrap(UnExpectedError, err.Error())
	}
	if c == nil {
		return nil, ErrCoinNotFound
	}
	return c, nil
}

// CreateCoinForCreator 调用外部协议创建代币并落库，唯一索引冲突时返回已存在的代币
func (s *coinServiceImpl) CreateCoinForCreator(ctx context.Context, creatorID, name, symbol, metadataLocator string) (*model.CreatorCoin, error) {
	created, err := s.protocol.CreateCoin(ctx, &coin.CreateCoinRequest{
		CreatorAddress:   creatorID,
		Name:             name,
		Symbol:           symbol,
		MetadataURI:      metadataLocator,
		ChainID:          s.settings.ChainID,
		SeedPurchaseWei:  s.settings.SeedPurchaseWei,
		PlatformReferrer: s.settings.PlatformReferrer,
	})
	if err != nil {
		log.ErrorContext(ctx, "coin protocol create error", "creator", creatorID, "err", err)
		return nil, stageError(ErrCoinProvisioning, errors.Wrap(err, "create coin"))
	}

	record := &model.CreatorCoin{
		CreatorID:       creatorID,
		CoinAddress:     strings.ToLower(created.Address),
		Name:            name,
		Symbol:          symbol,
		ChainID:         s.settings.ChainID,
		TxHash:          created.TxHash,
		MetadataLocator: metadataLocator,
	}
	if err = s.repo.Create(ctx, record); err != nil {
		if repository.IsDuplicateKey(err) {
			winner, rErr := s.lookup(ctx, creatorID)
			if rErr == nil && winner != nil {
				log.WarnContext(ctx, "coin already created concurrently, use existing",
					"creator", creatorID, "existing", winner.CoinAddress, "orphan", created.Address)
				return winner, nil
			}
		}
		log.ErrorContext(ctx, "persist creator coin error", "creator", creatorID, "err", err)
		return nil, stageError(ErrCoinProvisioning, errors.Wrap(err, "persist coin"))
	}

	log.InfoContext(ctx, "creator coin created", "creator", creatorID, "address", record.CoinAddress, "symbol", symbol)
	return record, nil
}

// ResolveCoin 查询或创建创作者代币，同一进程内按创作者合并请求，跨进程使用 Redis 锁
func (s *coinServiceImpl) ResolveCoin(ctx context.Context, creatorID, name, symbol, metadataLocator string) (*model.CreatorCoin, error) {
	v, err, _ := s.group.Do(creatorID, func() (interface{}, error) {
		existing, err := s.lookup(ctx, creatorID)
		if err != nil {
			return nil, stageError(ErrCoinProvisioning, err)
		}
		if existing != nil {
			return existing, nil
		}

		if s.locker != nil {
			lockKey := consts.CoinCreateLock + strings.ToLower(creatorID)
			token := uuid.NewString()
			ok, lockErr := s.locker.TryLock(ctx, lockKey, token, consts.CoinLockTTL, coinLockRetryTimes)
			switch {
			case lockErr != nil:
				log.WarnContext(ctx, "coin lock unavailable, rely on unique index", "creator", creatorID, "err", lockErr)
			case ok:
				defer s.locker.UnLock(context.WithoutCancel(ctx), lockKey, token)
			default:
				log.WarnContext(ctx, "coin lock busy, rely on unique index", "creator", creatorID)
			}

			existing, err = s.lookup(ctx, creatorID)
			if err != nil {
				return nil, stageError(ErrCoinProvisioning, err)
			}
			if existing != nil {
				return existing, nil
			}
		}

		return s.CreateCoinForCreator(ctx, creatorID, name, symbol, metadataLocator)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.CreatorCoin), nil
}

func (s *coinServiceImpl) Buy(ctx context.Context, coinAddress, recipient string, amountWei decimal.Decimal) (*coin.TxResult, error) {
	req, err := s.tradeRequest(ctx, coinAddress, recipient, amountWei)
	if err != nil {
		return nil, err
	}
	res, err := s.protocol.Buy(ctx, req)
	if err != nil {
		log.WarnContext(ctx, "coin buy error", "coin", coinAddress, "err", err)
		return nil, stageError(ErrTradeFailed, err)
	}
	return res, nil
}

func (s *coinServiceImpl) Sell(ctx context.Context, coinAddress, recipient string, amountWei decimal.Decimal) (*coin.TxResult, error) {
	req, err := s.tradeRequest(ctx, coinAddress, recipient, amountWei)
	if err != nil {
		return nil, err
	}
	res, err := s.protocol.Sell(ctx, req)
	if err != nil {
		log.WarnContext(ctx, "coin sell error", "coin", coinAddress, "err", err)
		return nil, stageError(ErrTradeFailed, err)
	}
	return res, nil
}

func (s *coinServiceImpl) tradeRequest(ctx context.Context, coinAddress, recipient string, amountWei decimal.Decimal) (*coin.TradeRequest, error) {
	if !amountWei.IsPositive() {
		return nil, NewValidationError("amount", "必须大于 0")
	}
	if recipient == "" {
		return nil, NewValidationError("recipient", "不能为空")
	}
	c, err := s.repo.GetByAddress(ctx, strings.ToLower(coinAddress))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCoinNotFound
		}
		return nil, errors.Wrap(UnExpectedError, err.Error())
	}
	return &coin.TradeRequest{
		CoinAddress: c.CoinAddress,
		Recipient:   recipient,
		AmountWei:   amountWei,
		ChainID:     c.ChainID,
	}, nil
}

func (s *coinServiceImpl) lookup(ctx context.Context, creatorID string) (*model.CreatorCoin, error) {
	c, err := s.repo.GetByCreator(ctx, creatorID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
