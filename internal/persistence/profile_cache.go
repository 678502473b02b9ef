package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/contracts-service/internal/domain"
)

// ProfileCache is a redis-backed read-through cache for profile lookups made
// by the caller-identity middleware. Balance freshness is not load-bearing
// here: every balance decision happens inside a ledger transaction against
// the store. Entries are invalidated whenever a balance changes.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache builds a cache over the given redis connection.
func NewProfileCache(r *Redis, ttl time.Duration) *ProfileCache {
	if r == nil {
		return &ProfileCache{}
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProfileCache{client: r.Client, ttl: ttl}
}

// Get returns the cached profile, or nil on miss or cache failure.
func (c *ProfileCache) Get(ctx context.Context, id int64) *domain.Profile {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil
	}
	return &profile
}

// Set stores the profile under its id key.
func (c *ProfileCache) Set(ctx context.Context, profile *domain.Profile) {
	if c == nil || c.client == nil || profile == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, profileKey(profile.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for a profile.
func (c *ProfileCache) Invalidate(ctx context.Context, id int64) error {
	if c == nil || c.client == nil {
		return errors.New("profile cache not configured")
	}
	return c.client.Del(ctx, profileKey(id)).Err()
}

func profileKey(id int64) string {
	return fmt.Sprintf("profile:%d", id)
}
