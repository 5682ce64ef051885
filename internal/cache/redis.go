package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbackoffice/config"
	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds draft sessions and cached directory dropdown options.
type RedisCache struct {
	client     redis.Cmdable
	sessionTTL time.Duration
	optionsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, sessionTTL, optionsTTL time.Duration) *RedisCache {
	return newRedisCache(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), sessionTTL, optionsTTL)
}

func newRedisCache(client redis.Cmdable, sessionTTL, optionsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		sessionTTL: sessionTTL,
		optionsTTL: optionsTTL,
	}
}

// SaveDraft stores the session's draft and refreshes its expiry.
func (c *RedisCache) SaveDraft(ctx context.Context, sessionID string, d *domain.BookingDraft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, draftKey(sessionID), payload, c.sessionTTL).Err()
}

func (c *RedisCache) GetDraft(ctx context.Context, sessionID string) (*domain.BookingDraft, error) {
	data, err := c.client.Get(ctx, draftKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, err
	}

	var d domain.BookingDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", sessionID, err)
	}
	return &d, nil
}

func (c *RedisCache) DeleteDraft(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, draftKey(sessionID)).Err()
}

// GetOptions returns nil, nil on a cache miss.
func (c *RedisCache) GetOptions(ctx context.Context, kind string) ([]domain.DirectoryOption, error) {
	data, err := c.client.Get(ctx, optionsKey(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var options []domain.DirectoryOption
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (c *RedisCache) SetOptions(ctx context.Context, kind string, options []domain.DirectoryOption) error {
	payload, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, optionsKey(kind), payload, c.optionsTTL).Err()
}

func draftKey(sessionID string) string {
	return "draft:session:" + sessionID
}

func optionsKey(kind string) string {
	return "cache:directory:" + kind
}
