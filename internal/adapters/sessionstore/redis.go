package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/tripboard/internal/domain/session"
)

// RedisStore keeps sessions as JSON strings with a TTL.
type RedisStore struct {
	client *redis.Client
	cfg    config
}

// NewRedisStore uses an existing client. Close closes it.
func NewRedisStore(client *redis.Client, opts ...Option) *RedisStore {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &RedisStore{client: client, cfg: cfg}
}

// OpenRedis parses redisURL, tunes the pool and checks the connection.
func OpenRedis(ctx context.Context, redisURL string, opts ...Option) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, opts...), nil
}

func (r *RedisStore) key(id string) string {
	return r.cfg.keyPrefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return decode(data)
}

func (r *RedisStore) Save(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.cfg.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Count scans the key prefix. Expired keys are already gone in Redis.
func (r *RedisStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := r.client.Scan(ctx, 0, r.cfg.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
