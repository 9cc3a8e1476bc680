package service

import (
	"Mintora/internal/model"
	"Mintora/internal/pkg/coin"
	"Mintora/internal/repository"
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCoinFixture() (CoinService, *countingProtocol, *memoryLocker) {
	protocol := &countingProtocol{Protocol: coin.NewLocalProtocol(8453)}
	locker := newMemoryLocker()
	svc := NewCoinService(repository.NewMemoryCoinRepo(), protocol, locker, CoinSettings{
		ChainID:         8453,
		SeedPurchaseWei: decimal.RequireFromString("100000000000000"),
	})
	return svc, protocol, locker
}

func TestCoinResolveCreatesOnce(t *testing.T) {
	svc, protocol, locker := newCoinFixture()
	ctx := context.Background()

	_, err := svc.GetCoinForCreator(ctx, testCreator)
	assert.ErrorIs(t, err, ErrCoinNotFound)

	first, err := svc.ResolveCoin(ctx, testCreator, "Test", "T", "cas://meta")
	require.NoError(t, err)
	second, err := svc.ResolveCoin(ctx, testCreator, "Other", "O", "cas://meta2")
	require.NoError(t, err)

	assert.Equal(t, first.CoinAddress, second.CoinAddress)
	assert.Equal(t, int32(1), protocol.creates.Load())
	assert.Equal(t, int32(1), locker.calls.Load())
	assert.Empty(t, locker.held)

	got, err := svc.GetCoinForCreator(ctx, testCreator)
	require.NoError(t, err)
	assert.Equal(t, first.CoinAddress, got.CoinAddress)
}

func TestCoinTrade(t *testing.T) {
	svc, _, _ := newCoinFixture()
	ctx := context.Background()

	c, err := svc.ResolveCoin(ctx, testCreator, "Test", "T", "cas://meta")
	require.NoError(t, err)
	amount := decimal.NewFromInt(1000)

	res, err := svc.Buy(ctx, c.CoinAddress, "0xbuyer", amount)
	require.NoError(t, err)
	assert.Equal(t, coin.TxStatusConfirmed, res.Status)
	assert.NotEmpty(t, res.TxHash)

	res, err = svc.Sell(ctx, c.CoinAddress, "0xbuyer", amount)
	require.NoError(t, err)
	assert.True(t, amount.Equal(res.AmountIn))

	_, err = svc.Buy(ctx, c.CoinAddress, "0xbuyer", decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Buy(ctx, c.CoinAddress, "", amount)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Sell(ctx, "0xunknown", "0xbuyer", amount)
	assert.ErrorIs(t, err, ErrCoinNotFound)
}

func TestCoinAddressIsCaseInsensitive(t *testing.T) {
	repos := map[string]func(t *testing.T) repository.CoinRepo{
		"memory": func(*testing.T) repository.CoinRepo { return repository.NewMemoryCoinRepo() },
		"gorm-sqlite": func(t *testing.T) repository.CoinRepo {
			db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard, TranslateError: true})
			require.NoError(t, err)
			sqlDB, err := db.DB()
			require.NoError(t, err)
			sqlDB.SetMaxOpenConns(1)
			t.Cleanup(func() { _ = sqlDB.Close() })
			require.NoError(t, db.AutoMigrate(&model.CreatorCoin{}))
			return repository.NewCoinRepo(db)
		},
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewCoinService(newRepo(t), &checksumProtocol{Protocol: coin.NewLocalProtocol(8453)}, nil, CoinSettings{ChainID: 8453})

			c, err := svc.ResolveCoin(ctx, testCreator, "Test", "T", "cas://meta")
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(c.CoinAddress), c.CoinAddress)

			mixed := "0x" + strings.ToUpper(strings.TrimPrefix(c.CoinAddress, "0x"))
			amount := decimal.NewFromInt(1000)
			for _, addr := range []string{c.CoinAddress, mixed} {
				res, err := svc.Buy(ctx, addr, "0xbuyer", amount)
				require.NoError(t, err, addr)
				assert.Equal(t, coin.TxStatusConfirmed, res.Status)

				_, err = svc.Sell(ctx, addr, "0xbuyer", amount)
				require.NoError(t, err, addr)
			}
		})
	}
}
