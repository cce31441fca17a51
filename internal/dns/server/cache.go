package server

import (
	"bytes"
	"context"
	"encoding/gob"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// responseCache holds resolved answer sets for successful (NOERROR) QUERY
// responses only — never NXDOMAIN, UPDATE, or AXFR. L1 is an in-process map; L2
// is an optional Redis client, used when configured, so a restart doesn't
// cold-start every lookup. It is fully cleared on every successful UPDATE,
// since it has no fine-grained per-name invalidation.
type responseCache struct {
	mu  sync.RWMutex
	l1  map[string][]domain.RR
	ttl time.Duration

	redis *redis.Client
}

// NewCache builds a response cache. rdb may be nil to disable the L2 tier.
func NewCache(ttl time.Duration, rdb *redis.Client) *responseCache {
	return &responseCache{l1: make(map[string][]domain.RR), ttl: ttl, redis: rdb}
}

func (c *responseCache) get(ctx context.Context, key string) ([]domain.RR, bool) {
	c.mu.RLock()
	v, ok := c.l1[key]
	c.mu.RUnlock()
	if ok {
		return v, true
	}

	if c.redis == nil {
		return nil, false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	rrs, err := decodeRRs(raw)
	if err != nil {
		return nil, false
	}
	c.mu.Lock()
	c.l1[key] = rrs
	c.mu.Unlock()
	return rrs, true
}

func (c *responseCache) set(ctx context.Context, key string, rrs []domain.RR) {
	c.mu.Lock()
	c.l1[key] = rrs
	c.mu.Unlock()

	if c.redis == nil {
		return
	}
	raw, err := encodeRRs(rrs)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, raw, c.ttl)
}

// clear drops every cached entry. Called after any successful UPDATE.
func (c *responseCache) clear(ctx context.Context) {
	c.mu.Lock()
	c.l1 = make(map[string][]domain.RR)
	c.mu.Unlock()

	if c.redis != nil {
		c.redis.FlushDB(ctx)
	}
}

func encodeRRs(rrs []domain.RR) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rrs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRRs(raw []byte) ([]domain.RR, error) {
	var rrs []domain.RR
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rrs); err != nil {
		return nil, err
	}
	return rrs, nil
}
