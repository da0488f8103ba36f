// Package redisstore persists engine records in Redis, which lets a
// session survive across devices sharing the same backend.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cubeforge/collab/storage"
)

// Store keeps one Redis key per record.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix changes the key prefix, e.g. to namespace several engines on
// one Redis instance.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTTL expires records after the given duration. Zero means no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New connects to Redis using a URL of the form redis://host:port/db.
func New(redisURL string, opts ...Option) (*Store, error) {
	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(ropts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewWithClient(client, opts...), nil
}

// NewWithClient builds a store from an existing Redis client. The caller
// keeps ownership of the client's lifecycle only if it also calls Close
// elsewhere; Store.Close closes it.
func NewWithClient(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: "collab:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(rec storage.Record) string {
	return s.prefix + string(rec)
}

func (s *Store) Read(ctx context.Context, rec storage.Record) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(rec)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rec, err)
	}
	return data, nil
}

func (s *Store) Write(ctx context.Context, rec storage.Record, data []byte) error {
	if err := s.client.Set(ctx, s.key(rec), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("write %s: %w", rec, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, rec storage.Record) error {
	if err := s.client.Del(ctx, s.key(rec)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", rec, err)
	}
	return nil
}

// Ping verifies the connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
