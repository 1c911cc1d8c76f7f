package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hash fields, named after the keys the web console kept in sessionStorage.
const (
	fieldToken = "authToken"
	fieldUser  = "authUser"
	fieldPass  = "authPass"
)

// RedisStorage stores the record in a hash that expires after ttl, so an
// abandoned session does not linger.
type RedisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStorage creates a storage from a redis:// URL.
func NewRedisStorage(url, name string, ttl time.Duration) (*RedisStorage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedisStorageWithClient(redis.NewClient(opts), name, ttl), nil
}

// NewRedisStorageWithClient wraps an existing client.
func NewRedisStorageWithClient(client *redis.Client, name string, ttl time.Duration) *RedisStorage {
	if name == "" {
		name = "default"
	}
	return &RedisStorage{
		client: client,
		key:    "adminctl:session:" + name,
		ttl:    ttl,
	}
}

// Key returns the redis key holding the record.
func (r *RedisStorage) Key() string { return r.key }

func (r *RedisStorage) Load(ctx context.Context) (Record, bool, error) {
	values, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Record{}, false, err
	}
	if len(values) == 0 {
		return Record{}, false, nil
	}
	return Record{
		Identity:   values[fieldUser],
		Secret:     values[fieldPass],
		Credential: values[fieldToken],
	}, true, nil
}

func (r *RedisStorage) Save(ctx context.Context, rec Record) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, map[string]any{
			fieldToken: rec.Credential,
			fieldUser:  rec.Identity,
			fieldPass:  rec.Secret,
		})
		if r.ttl > 0 {
			pipe.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	return err
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

// Close releases the redis connection pool.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
