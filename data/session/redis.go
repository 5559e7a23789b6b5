package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("error session not found")

type RedisSession struct {
	redis      *redis.Client
	expiration time.Duration
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, expiration: cfg.SessionExpiration}
}

func sessionKey(chatID int64) string {
	return "session:" + strconv.FormatInt(chatID, 10)
}

func (s *RedisSession) GetSession(ctx context.Context, chatID int64) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := s.redis.Get(ctx, sessionKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	chatSession := model.Session{}
	err = json.Unmarshal([]byte(res), &chatSession)
	if err != nil {
		slog.Error("can't unmarshall session", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	return chatSession, nil
}

func (s *RedisSession) SetSession(ctx context.Context, chatID int64, chatSession model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	sessionJson, err := json.Marshal(chatSession)
	if err != nil {
		slog.Error("can't marshall session", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	err = s.redis.Set(ctx, sessionKey(chatID), sessionJson, s.expiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	return nil
}

// NextSeq issues the next request sequence number for key.
func (s *RedisSession) NextSeq(ctx context.Context, key string) (int64, error) {
	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if s.expiration > 0 {
		pipe.Expire(ctx, key, s.expiration)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("failed on NextSeq", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("key", key), slog.String("err", err.Error()))
		return 0, err
	}

	return incr.Val(), nil
}

// LatestSeq returns the last issued sequence number for key, 0 if none.
func (s *RedisSession) LatestSeq(ctx context.Context, key string) (int64, error) {
	seq, err := s.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return seq, nil
}
