package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAccess  = "access"
	fieldRefresh = "refresh"
)

// RedisStore keeps the token pair in a Redis hash so several client
// processes (a CLI and a long-running event tail, say) share one login.
type RedisStore struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisStore stores tokens under key. A positive ttl expires the pair,
// matching the refresh token lifetime.
func NewRedisStore(client redis.Cmdable, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (Pair, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Pair{}, nil
		}
		return Pair{}, errors.Join(ErrStorageFailure, err)
	}
	return Pair{Access: values[fieldAccess], Refresh: values[fieldRefresh]}, nil
}

func (s *RedisStore) Save(ctx context.Context, p Pair) error {
	if p.Access == "" {
		return ErrEmptyAccessToken
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key, fieldAccess, p.Access, fieldRefresh, p.Refresh)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}
