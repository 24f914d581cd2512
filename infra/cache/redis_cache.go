package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/quickcurrency/pkg/cache"
	"github.com/amirasaad/quickcurrency/pkg/domain"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// RedisStorage implements cache.Storage using Redis.
// Entries are written without a Redis expiry; freshness is decided by cache.Store.
type RedisStorage struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

var _ cache.Storage = (*RedisStorage)(nil)

// ErrEmptyPrefix is returned for a blank key prefix. Clear deletes every key
// under the prefix, so an empty one would cover the whole database.
var ErrEmptyPrefix = errors.New("redis cache prefix must not be empty")

// NewRedisStorage wraps an existing client.
func NewRedisStorage(client *redis.Client, prefix string, logger *slog.Logger) (*RedisStorage, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, ErrEmptyPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStorage{client: client, prefix: prefix, logger: logger}, nil
}

// NewRedisStorageFromURL parses a redis:// URL and connects lazily. Each
// tune function may adjust the parsed options before the client is built.
func NewRedisStorageFromURL(
	url, prefix string,
	logger *slog.Logger,
	tune ...func(*redis.Options),
) (*RedisStorage, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, ErrEmptyPrefix
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	for _, fn := range tune {
		fn(opt)
	}
	return NewRedisStorage(redis.NewClient(opt), prefix, logger)
}

func (r *RedisStorage) key(key string) string {
	return r.prefix + key
}

// Ping checks connectivity.
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}

func (r *RedisStorage) Load(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return domain.CacheEntry{}, false, err
	}
	var entry domain.CacheEntry
	if err := sonic.Unmarshal([]byte(val), &entry); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return domain.CacheEntry{}, false, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "rate", entry.Rate)
	return entry, true, nil
}

func (r *RedisStorage) Save(ctx context.Context, entry domain.CacheEntry) error {
	data, err := sonic.Marshal(entry)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", entry.Key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(entry.Key), data, 0).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", entry.Key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", entry.Key, "rate", entry.Rate)
	return nil
}

// Clear deletes every key under the prefix.
func (r *RedisStorage) Clear(ctx context.Context) error {
	keys, err := r.scan(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Redis cache clear error", "error", err)
		return err
	}
	r.logger.Debug("Redis cache cleared", "count", len(keys))
	return nil
}

func (r *RedisStorage) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, r.prefix)
	}
	return keys, nil
}

func (r *RedisStorage) scan(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Redis cache scan error", "error", err)
		return nil, err
	}
	return keys, nil
}
