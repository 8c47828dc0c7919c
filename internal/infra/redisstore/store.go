// Package redisstore provides a Redis-backed implementation of domain.Storage.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// Store implements domain.Storage on Redis string keys.
// Keys are stored as "<namespace>:<key>".
type Store struct {
	client    *redis.Client
	namespace string
}

// New creates a Store using client.
func New(client *redis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &Store{client: client, namespace: namespace}
}

// NewFromConfig creates a client from cfg and checks that the server answers.
func NewFromConfig(ctx context.Context, cfg domain.RedisConfig, namespace string) (*Store, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = domain.DefaultRedisAddr
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return New(client, namespace), nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key without expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) redisKey(key string) string {
	return s.namespace + ":" + key
}

// Ensure Store implements Storage.
var _ domain.Storage = (*Store)(nil)
