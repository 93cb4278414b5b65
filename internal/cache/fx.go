package cache

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("cache",
	fx.Provide(NewRedisClient),
	fx.Provide(func(client redis.UniversalClient, cfg config.Config, c clock.Clock, log *zap.Logger) RateCardCache {
		return NewRateCardCache(client, cfg.RateCardCacheTTL, c, log)
	}),
)
