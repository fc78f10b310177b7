package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/redis/go-redis/v9"
)

// Cache backend for deployments running more than one host.
type RedisCache struct {
	Client redis.UniversalClient
}

var _ elsewhere.CacheBackend = (*RedisCache)(nil)

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", elsewhere.ErrCacheMiss
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (c *RedisCache) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := redisGeneration(ctx, c.Client, key)
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", elsewhere.GenerationKey(key), err)
	}
	return gen, nil
}

// Zero ttl keeps the key until invalidated.
func (c *RedisCache) SetIfGeneration(ctx context.Context, key string, value string,
	ttl time.Duration, gen int64) (bool, error) {
	genKey := elsewhere.GenerationKey(key)
	stored := false
	err := c.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := redisGeneration(ctx, tx, key)
		if err != nil || current != gen {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, genKey)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			// generation changed between WATCH and EXEC
			return false, nil
		}
		return false, fmt.Errorf("redis set %s: %w", key, err)
	}
	return stored, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Incr(ctx, elsewhere.GenerationKey(key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate %s: %w", key, err)
	}
	return nil
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func redisGeneration(ctx context.Context, client redisGetter, key string) (int64, error) {
	gen, err := client.Get(ctx, elsewhere.GenerationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Opens a client and checks the connection.
func RedisOpen(ctx context.Context, addr string, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}
