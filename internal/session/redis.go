package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/shop_api/internal/models"
)

const redisKeyPrefix = "session:"

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{Client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	ttl := time.Until(time.Unix(sess.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, redisKeyPrefix+sess.ID, data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.Client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, redisKeyPrefix+id).Err()
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
