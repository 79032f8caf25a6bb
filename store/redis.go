package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/shoprec/core"
)

// Redis 是 Redis 实现的 KeyValueStore。
// 生产环境常用：目录快照与购买历史可由上游写入 Redis，引擎侧只读。
type Redis struct {
	client *redis.Client
}

var _ core.KeyValueStore = (*Redis)(nil)

func NewRedis(addr string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttlSeconds ...int) error {
	var expiration time.Duration
	if len(ttlSeconds) > 0 && ttlSeconds[0] > 0 {
		expiration = time.Duration(ttlSeconds[0]) * time.Second
	}
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *Redis) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return make(map[string][]byte), nil
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(keys))
	for i, k := range keys {
		if vals[i] != nil {
			if s, ok := vals[i].(string); ok {
				result[k] = []byte(s)
			}
		}
	}
	return result, nil
}

func (r *Redis) BatchSet(ctx context.Context, kvs map[string][]byte, ttlSeconds ...int) error {
	pipe := r.client.Pipeline()
	var expiration time.Duration
	if len(ttlSeconds) > 0 && ttlSeconds[0] > 0 {
		expiration = time.Duration(ttlSeconds[0]) * time.Second
	}

	for k, v := range kvs {
		pipe.Set(ctx, k, v, expiration)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Close() error {
	return r.client.Close()
}
