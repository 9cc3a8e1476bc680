package consts

import "time"

const (
	TrendingContentKey = "content:trending:"
	CoinCreateLock     = "coin:create:lock:"

	ForecastBackfillLock = "job:forecast:backfill:lock"
)

const (
	TrendingCacheTTL = 2 * time.Minute
	CoinLockTTL      = 90 * time.Second
)
