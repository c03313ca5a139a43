// Package redis provides a Redis-backed cache store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/s2design/site/internal/services/site/storage"
)

const defaultPrefix = "s2site:cache:"

// Config describes the Redis connection.
type Config struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

// Store keeps each entry in a hash and tracks scope membership in sets.
type Store struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, errors.New("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return newStore(client, cfg.Prefix), nil
}

func newStore(client *goredis.Client, prefix string) *Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix, now: time.Now}
}

func (s *Store) entryKey(key string) string {
	return s.prefix + "entry:" + strings.TrimSpace(key)
}

func (s *Store) scopeKey(scope string) string {
	return s.prefix + "scope:" + strings.TrimSpace(scope)
}

// Get loads a live entry by key.
func (s *Store) Get(ctx context.Context, key string) (storage.Entry, bool, error) {
	if s == nil || s.client == nil {
		return storage.Entry{}, false, storage.ErrNotConfigured
	}
	values, err := s.client.HGetAll(ctx, s.entryKey(key)).Result()
	if err != nil {
		return storage.Entry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	if len(values) == 0 {
		return storage.Entry{}, false, nil
	}
	entry := storage.Entry{
		Key:         strings.TrimSpace(key),
		Scope:       values["scope"],
		Payload:     []byte(values["payload"]),
		RefreshedAt: parseMillis(values["refreshed_at"]),
		ExpiresAt:   parseMillis(values["expires_at"]),
	}
	if entry.Expired(s.now()) {
		return storage.Entry{}, false, nil
	}
	return entry, true, nil
}

// Put upserts an entry. Entries with an expiry also get a Redis TTL so
// abandoned keys age out on their own.
func (s *Store) Put(ctx context.Context, entry storage.Entry) error {
	if s == nil || s.client == nil {
		return storage.ErrNotConfigured
	}
	entry, err := storage.Normalize(entry, s.now())
	if err != nil {
		return err
	}
	key := s.entryKey(entry.Key)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"scope", entry.Scope,
			"payload", entry.Payload,
			"refreshed_at", formatMillis(entry.RefreshedAt),
			"expires_at", formatMillis(entry.ExpiresAt),
		)
		if !entry.ExpiresAt.IsZero() {
			pipe.PExpireAt(ctx, key, entry.ExpiresAt)
		}
		pipe.SAdd(ctx, s.scopeKey(entry.Scope), entry.Key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return storage.ErrNotConfigured
	}
	if err := s.client.Del(ctx, s.entryKey(key)).Err(); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// DeleteScope removes every entry recorded under scope.
func (s *Store) DeleteScope(ctx context.Context, scope string) error {
	if s == nil || s.client == nil {
		return storage.ErrNotConfigured
	}
	scopeKey := s.scopeKey(scope)
	members, err := s.client.SMembers(ctx, scopeKey).Result()
	if err != nil {
		return fmt.Errorf("list cache scope: %w", err)
	}
	keys := make([]string, 0, len(members)+1)
	for _, member := range members {
		keys = append(keys, s.entryKey(member))
	}
	keys = append(keys, scopeKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache scope: %w", err)
	}
	return nil
}

// Purge removes every key under the store prefix.
func (s *Store) Purge(ctx context.Context) error {
	if s == nil || s.client == nil {
		return storage.ErrNotConfigured
	}
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache: %w", err)
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("purge cache: %w", err)
		}
	}
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func formatMillis(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return strconv.FormatInt(t.UTC().UnixMilli(), 10)
}

func parseMillis(raw string) time.Time {
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
