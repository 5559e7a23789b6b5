package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("error not found in cache")

const popularStocksKey = "popular_stocks"

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetPopularStocks(ctx context.Context, stocks []model.PopularStock) error {
	return r.set(ctx, popularStocksKey, stocks, r.cfg.Cache.PopularStocksExpiration)
}

func (r *RedisCache) GetPopularStocks(ctx context.Context) ([]model.PopularStock, error) {
	var stocks []model.PopularStock
	err := r.get(ctx, popularStocksKey, &stocks)
	return stocks, err
}

func (r *RedisCache) SetCryptoMarkets(ctx context.Context, vsCurrency string, coins []model.Coin) error {
	return r.set(ctx, cryptoMarketsKey(vsCurrency), coins, r.cfg.Cache.CryptoMarketsExpiration)
}

func (r *RedisCache) GetCryptoMarkets(ctx context.Context, vsCurrency string) ([]model.Coin, error) {
	var coins []model.Coin
	err := r.get(ctx, cryptoMarketsKey(vsCurrency), &coins)
	return coins, err
}

func (r *RedisCache) SetRate(ctx context.Context, from, to string, rate float64) error {
	return r.set(ctx, rateKey(from, to), rate, r.cfg.Cache.RatesExpiration)
}

func (r *RedisCache) GetRate(ctx context.Context, from, to string) (float64, error) {
	var rate float64
	err := r.get(ctx, rateKey(from, to), &rate)
	return rate, err
}

func (r *RedisCache) set(ctx context.Context, key string, value any, expiration time.Duration) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	valueJson, err := json.Marshal(value)
	if err != nil {
		slog.Error("can't marshall value", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return fmt.Errorf("marshall %s: %w", key, err)
	}

	err = r.redis.Set(ctx, key, valueJson, expiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("cache set", slog.String("rqID", rqID), slog.String("key", key))

	return nil
}

func (r *RedisCache) get(ctx context.Context, key string, dest any) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return err
	}

	err = json.Unmarshal([]byte(res), dest)
	if err != nil {
		slog.Error("can't unmarshall cached value", slog.String("rqID", rqID), slog.String("key", key), slog.String("err", err.Error()))
		return fmt.Errorf("unmarshall %s: %w", key, err)
	}

	return nil
}

func cryptoMarketsKey(vsCurrency string) string {
	return "crypto_markets:" + strings.ToLower(vsCurrency)
}

func rateKey(from, to string) string {
	return "rate:" + strings.ToUpper(from) + ":" + strings.ToUpper(to)
}
