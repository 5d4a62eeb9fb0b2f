// Package rediskv implements eisenhower.KVRepo on a Redis hash per namespace;
// the hash key is the namespace.
package rediskv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/benjamonnguyen/eisenhower"
)

type kvRepo struct {
	client    *redis.Client
	namespace string
	l         eisenhower.Logger
}

var _ eisenhower.KVRepo = (*kvRepo)(nil)

// Open connects to a redis:// or rediss:// url.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

func NewKVRepo(client *redis.Client, namespace string, logger eisenhower.Logger) eisenhower.KVRepo {
	if client == nil {
		panic("rediskv.NewKVRepo: client is nil")
	}
	if namespace == "" {
		panic("rediskv.NewKVRepo: namespace is empty")
	}
	return &kvRepo{
		client:    client,
		namespace: namespace,
		l:         orDiscard(logger),
	}
}

func (r *kvRepo) hashKey() string {
	return r.namespace
}

func orDiscard(l eisenhower.Logger) eisenhower.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}

func (r *kvRepo) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.HGet(ctx, r.hashKey(), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("get %q: %w", key, eisenhower.ErrNotFound)
		}
		return "", err
	}
	return v, nil
}

func (r *kvRepo) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("provide key")
	}
	r.l.Debug("setting key", "hash", r.hashKey(), "key", key, "bytes", len(value))
	return r.client.HSet(ctx, r.hashKey(), key, value).Err()
}

// SetMany relies on HSET with several fields being a single atomic command.
func (r *kvRepo) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	values := make(map[string]any, len(entries))
	for k, v := range entries {
		if k == "" {
			return fmt.Errorf("provide key")
		}
		values[k] = v
	}
	r.l.Debug("setting keys", "hash", r.hashKey(), "count", len(values))
	return r.client.HSet(ctx, r.hashKey(), values).Err()
}

func (r *kvRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.HDel(ctx, r.hashKey(), keys...).Err()
}

func (r *kvRepo) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.client.HKeys(ctx, r.hashKey()).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}
